package dto

import (
	"time"

	"github.com/altomira/chorequest-api/internal/models"
)

// TemplateDTO represents a task template in API responses
type TemplateDTO struct {
	ID             uint64                `json:"id"`
	FamilyID       uint64                `json:"family_id"`
	Title          string                `json:"title"`
	Points         int                   `json:"points"`
	IntervalDays   int                   `json:"interval_days"`
	IsBonus        bool                  `json:"is_bonus"`
	IsActive       bool                  `json:"is_active"`
	AssignmentType models.AssignmentType `json:"assignment_type"`
	MemberIDs      []uint64              `json:"member_ids"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToTemplateDTO converts a template (with members preloaded) to its response shape
func ToTemplateDTO(template models.TaskTemplate) TemplateDTO {
	return TemplateDTO{
		ID:             template.ID,
		FamilyID:       template.FamilyID,
		Title:          template.Title,
		Points:         template.Points,
		IntervalDays:   template.IntervalDays,
		IsBonus:        template.IsBonus,
		IsActive:       template.IsActive,
		AssignmentType: template.AssignmentType,
		MemberIDs:      template.AssignedMemberIDs(),
		CreatedAt:      template.CreatedAt,
		UpdatedAt:      template.UpdatedAt,
	}
}

// ToTemplateDTOs converts a template list
func ToTemplateDTOs(templates []models.TaskTemplate) []TemplateDTO {
	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = ToTemplateDTO(t)
	}
	return dtos
}
