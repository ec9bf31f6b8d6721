package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/altomira/chorequest-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrFamilyNotFound             = errors.New("family not found")
	ErrInvalidFamilyName          = errors.New("family name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyFamilyMember        = errors.New("user is already a member of this family")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the family")
	ErrFamilyMemberNotFound       = errors.New("family member not found")
)

// FamilyService provides business logic for families and their roster.
type FamilyService struct {
	familyRepo repository.FamilyRepository
	pointsRepo repository.PointsRepository
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(familyRepo repository.FamilyRepository, pointsRepo repository.PointsRepository) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		pointsRepo: pointsRepo,
	}
}

// CreateFamilyInput represents parameters to create a new family.
type CreateFamilyInput struct {
	Name    string
	OwnerID uint64
}

// CreateFamily creates a new family and assigns the owner.
func (s *FamilyService) CreateFamily(input CreateFamilyInput) (*models.Family, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidFamilyName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	family := &models.Family{
		Name:       input.Name,
		InviteCode: inviteCode,
	}

	if err := s.familyRepo.Create(family); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	member := &models.FamilyMember{
		FamilyID: family.ID,
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		IsActive: true,
		JoinedAt: time.Now(),
	}

	if err := s.familyRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add owner to family: %w", err)
	}

	return family, nil
}

// ListFamiliesForUser returns families the user belongs to.
func (s *FamilyService) ListFamiliesForUser(userID uint64) ([]models.FamilyMember, error) {
	memberships, err := s.familyRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	return memberships, nil
}

// GetFamilyWithMembers returns a family and all of its members.
func (s *FamilyService) GetFamilyWithMembers(familyID uint64) (*models.Family, []models.FamilyMember, error) {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFamilyNotFound
		}
		return nil, nil, fmt.Errorf("failed to find family: %w", err)
	}

	members, err := s.familyRepo.ListMembers(familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list family members: %w", err)
	}

	return family, members, nil
}

// UpdateFamilyName updates a family's name.
func (s *FamilyService) UpdateFamilyName(familyID uint64, name string) (*models.Family, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidFamilyName
	}

	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}

	family.Name = name
	if err := s.familyRepo.Update(family); err != nil {
		return nil, fmt.Errorf("failed to update family: %w", err)
	}

	return family, nil
}

// DeleteFamily deletes a family and all related data.
func (s *FamilyService) DeleteFamily(familyID uint64) error {
	if _, err := s.familyRepo.FindByID(familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFamilyNotFound
		}
		return fmt.Errorf("failed to find family: %w", err)
	}

	if err := s.familyRepo.Delete(familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}

	return nil
}

// JoinFamily adds a user to the family matching the invite code.
func (s *FamilyService) JoinFamily(userID uint64, inviteCode string) (*models.Family, error) {
	family, err := s.familyRepo.FindByInviteCode(strings.TrimSpace(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.familyRepo.FindMember(family.ID, userID); err == nil {
		return nil, ErrAlreadyFamilyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.FamilyMember{
		FamilyID: family.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		IsActive: true,
		JoinedAt: time.Now(),
	}

	if err := s.familyRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to join family: %w", err)
	}

	return family, nil
}

// RegenerateInviteCode replaces a family's invite code.
func (s *FamilyService) RegenerateInviteCode(familyID uint64) (*models.Family, error) {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	family.InviteCode = inviteCode
	if err := s.familyRepo.Update(family); err != nil {
		return nil, fmt.Errorf("failed to update family: %w", err)
	}

	return family, nil
}

// RemoveMember removes another member from the family.
func (s *FamilyService) RemoveMember(familyID, userID, actorID uint64) error {
	if userID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.familyRepo.FindMember(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFamilyMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.familyRepo.RemoveMember(familyID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// SetMemberActive toggles whether a member is on the shuffle roster.
// Inactive members keep their history but receive no new assignments.
func (s *FamilyService) SetMemberActive(familyID, userID uint64, active bool) (*models.FamilyMember, error) {
	member, err := s.familyRepo.FindMember(familyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	member.IsActive = active
	if err := s.familyRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return member, nil
}

// LeaderboardEntry is one member's lifetime point total within a family.
type LeaderboardEntry struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// Leaderboard returns every member of the family with their awarded point
// totals, highest first. Members without awards appear with zero points.
func (s *FamilyService) Leaderboard(familyID uint64) ([]LeaderboardEntry, error) {
	members, err := s.familyRepo.ListMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}

	totals, err := s.pointsRepo.TotalsByFamily(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, LeaderboardEntry{
			UserID:   m.UserID,
			Username: m.User.Username,
			Points:   totals[m.UserID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	return entries, nil
}

// PointHistory pages through a family's ledger, newest first, optionally
// restricted to one member.
func (s *FamilyService) PointHistory(familyID uint64, userID *uint64, params utils.PaginationParams) ([]models.PointEntry, int64, error) {
	entries, total, err := s.pointsRepo.History(familyID, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load point history: %w", err)
	}
	return entries, total, nil
}
