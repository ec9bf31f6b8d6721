package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/altomira/chorequest-api/internal/constants"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound       = errors.New("template not found")
	ErrTemplateTitleRequired  = errors.New("title is required")
	ErrNegativePoints         = errors.New("points must be non-negative")
	ErrInvalidIntervalDays    = errors.New("interval days must be between 1 and 7")
	ErrInvalidAssignmentType  = errors.New("assignment type must be FIXED, ROTATE or AUTO")
	ErrTemplateMembersMissing = errors.New("fixed and rotate templates require at least one member")
	ErrInvalidTemplateMember  = errors.New("one or more members do not belong to the family")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoSuggestions        = errors.New("AI did not suggest any chores")
	ErrAINoValidSuggestions   = errors.New("no valid chores could be created from AI output")
)

// TemplateService handles task template business logic.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	familyRepo   repository.FamilyRepository
	aiService    *AIService
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo repository.TemplateRepository, familyRepo repository.FamilyRepository, aiService *AIService) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		familyRepo:   familyRepo,
		aiService:    aiService,
	}
}

// CreateTemplateInput represents input for creating a task template.
type CreateTemplateInput struct {
	FamilyID       uint64
	Title          string
	Points         int
	IntervalDays   int
	IsBonus        bool
	AssignmentType models.AssignmentType
	MemberIDs      []uint64
}

// CreateTemplate validates and creates a task template.
func (s *TemplateService) CreateTemplate(input CreateTemplateInput) (*models.TaskTemplate, error) {
	if input.Title == "" {
		return nil, ErrTemplateTitleRequired
	}
	if input.Points < 0 {
		return nil, ErrNegativePoints
	}
	if input.IntervalDays < constants.MinIntervalDays || input.IntervalDays > constants.MaxIntervalDays {
		return nil, ErrInvalidIntervalDays
	}

	if input.AssignmentType == "" {
		input.AssignmentType = models.AssignmentTypeAuto
	}
	switch input.AssignmentType {
	case models.AssignmentTypeFixed, models.AssignmentTypeRotate:
		if len(input.MemberIDs) == 0 {
			return nil, ErrTemplateMembersMissing
		}
	case models.AssignmentTypeAuto:
		input.MemberIDs = nil
	default:
		return nil, ErrInvalidAssignmentType
	}

	if err := s.verifyFamilyMembers(input.FamilyID, input.MemberIDs); err != nil {
		return nil, err
	}

	template := &models.TaskTemplate{
		FamilyID:       input.FamilyID,
		Title:          input.Title,
		Points:         input.Points,
		IntervalDays:   input.IntervalDays,
		IsBonus:        input.IsBonus,
		IsActive:       true,
		AssignmentType: input.AssignmentType,
	}

	if err := s.templateRepo.Create(template, input.MemberIDs); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return s.templateRepo.FindByID(template.ID, template.FamilyID)
}

// GetTemplate returns a template scoped to a family.
func (s *TemplateService) GetTemplate(templateID, familyID uint64) (*models.TaskTemplate, error) {
	template, err := s.templateRepo.FindByID(templateID, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return template, nil
}

// ListTemplates returns all templates of a family.
func (s *TemplateService) ListTemplates(familyID uint64) ([]models.TaskTemplate, error) {
	templates, err := s.templateRepo.List(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplateInput represents input for updating a task template. Nil
// fields are left unchanged.
type UpdateTemplateInput struct {
	Title          *string
	Points         *int
	IntervalDays   *int
	IsBonus        *bool
	IsActive       *bool
	AssignmentType *models.AssignmentType
	MemberIDs      []uint64
}

// UpdateTemplate updates an existing task template.
func (s *TemplateService) UpdateTemplate(templateID, familyID uint64, input UpdateTemplateInput) (*models.TaskTemplate, error) {
	template, err := s.templateRepo.FindByID(templateID, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTemplateTitleRequired
		}
		template.Title = *input.Title
	}
	if input.Points != nil {
		if *input.Points < 0 {
			return nil, ErrNegativePoints
		}
		template.Points = *input.Points
	}
	if input.IntervalDays != nil {
		if *input.IntervalDays < constants.MinIntervalDays || *input.IntervalDays > constants.MaxIntervalDays {
			return nil, ErrInvalidIntervalDays
		}
		template.IntervalDays = *input.IntervalDays
	}
	if input.IsBonus != nil {
		template.IsBonus = *input.IsBonus
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if input.AssignmentType != nil {
		switch *input.AssignmentType {
		case models.AssignmentTypeFixed, models.AssignmentTypeRotate, models.AssignmentTypeAuto:
			template.AssignmentType = *input.AssignmentType
		default:
			return nil, ErrInvalidAssignmentType
		}
	}

	memberIDs := input.MemberIDs
	switch template.AssignmentType {
	case models.AssignmentTypeFixed, models.AssignmentTypeRotate:
		if memberIDs == nil && len(template.Members) == 0 {
			return nil, ErrTemplateMembersMissing
		}
		if memberIDs != nil && len(memberIDs) == 0 {
			return nil, ErrTemplateMembersMissing
		}
	case models.AssignmentTypeAuto:
		// AUTO ignores the member list; clear any stale one.
		memberIDs = []uint64{}
	}

	if err := s.verifyFamilyMembers(familyID, memberIDs); err != nil {
		return nil, err
	}

	// Save a clean row: GORM would otherwise upsert the stale preloaded
	// association rows alongside the member replacement.
	template.Members = nil
	if err := s.templateRepo.Update(template, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return s.templateRepo.FindByID(templateID, familyID)
}

// DeleteTemplate deletes a template scoped to a family.
func (s *TemplateService) DeleteTemplate(templateID, familyID uint64) error {
	if _, err := s.templateRepo.FindByID(templateID, familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to find template: %w", err)
	}

	if err := s.templateRepo.Delete(templateID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}

// SuggestTemplates uses AI to propose chore templates from free text. The
// raw suggestions are sanitized: blank titles dropped, points and intervals
// clamped into their valid ranges.
func (s *TemplateService) SuggestTemplates(ctx context.Context, text string) ([]SuggestedTemplate, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	raw, err := s.aiService.SuggestTemplatesFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest chores: %w", err)
	}

	if len(raw) == 0 {
		return nil, ErrAINoSuggestions
	}
	if len(raw) > constants.MaxAISuggestedTemplates {
		return nil, fmt.Errorf("AI suggested too many chores (max %d)", constants.MaxAISuggestedTemplates)
	}

	valid := make([]SuggestedTemplate, 0, len(raw))
	for _, suggestion := range raw {
		suggestion.Title = strings.TrimSpace(suggestion.Title)
		if suggestion.Title == "" {
			continue
		}
		if suggestion.Points < 0 {
			suggestion.Points = 0
		}
		if suggestion.IntervalDays < constants.MinIntervalDays {
			suggestion.IntervalDays = constants.MinIntervalDays
		}
		if suggestion.IntervalDays > constants.MaxIntervalDays {
			suggestion.IntervalDays = constants.MaxIntervalDays
		}
		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidSuggestions
	}

	return valid, nil
}

// verifyFamilyMembers checks that every listed member belongs to the family.
func (s *TemplateService) verifyFamilyMembers(familyID uint64, memberIDs []uint64) error {
	if len(memberIDs) == 0 {
		return nil
	}

	members, err := s.familyRepo.ListMembers(familyID)
	if err != nil {
		return fmt.Errorf("failed to list family members: %w", err)
	}

	known := make(map[uint64]bool, len(members))
	for _, m := range members {
		known[m.UserID] = true
	}
	for _, id := range memberIDs {
		if !known[id] {
			return ErrInvalidTemplateMember
		}
	}
	return nil
}
