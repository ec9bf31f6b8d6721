package dto

import (
	"time"

	"github.com/altomira/chorequest-api/internal/models"
)

// FamilyDTO represents a family in API responses. The invite code is only
// populated for owners.
type FamilyDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code,omitempty"`
}

// FamilyMemberDTO represents one roster entry in API responses
type FamilyMemberDTO struct {
	User     UserDTO           `json:"user"`
	Role     models.FamilyRole `json:"role"`
	IsActive bool              `json:"is_active"`
	JoinedAt time.Time         `json:"joined_at"`
}

// ToFamilyDTO converts a family model to its response shape
func ToFamilyDTO(family models.Family, includeInviteCode bool) FamilyDTO {
	d := FamilyDTO{
		ID:   family.ID,
		Name: family.Name,
	}
	if includeInviteCode {
		d.InviteCode = family.InviteCode
	}
	return d
}

// PointEntryDTO represents one ledger row in API responses
type PointEntryDTO struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	Amount       int       `json:"amount"`
	AssignmentID uint64    `json:"assignment_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToPointEntryDTOs converts a ledger page
func ToPointEntryDTOs(entries []models.PointEntry) []PointEntryDTO {
	dtos := make([]PointEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = PointEntryDTO{
			ID:           e.ID,
			UserID:       e.UserID,
			Amount:       e.Amount,
			AssignmentID: e.AssignmentID,
			CreatedAt:    e.CreatedAt,
		}
	}
	return dtos
}

// ToFamilyMemberDTO converts a membership (with its user preloaded) to its
// response shape
func ToFamilyMemberDTO(member models.FamilyMember) FamilyMemberDTO {
	return FamilyMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		IsActive: member.IsActive,
		JoinedAt: member.JoinedAt,
	}
}
