package dto

import (
	"time"

	"github.com/altomira/chorequest-api/internal/models"
)

// AssignmentDTO represents one dated chore instance in API responses
type AssignmentDTO struct {
	ID           uint64                  `json:"id"`
	TemplateID   uint64                  `json:"template_id"`
	FamilyID     uint64                  `json:"family_id"`
	AssignedTo   uint64                  `json:"assigned_to"`
	Status       models.AssignmentStatus `json:"status"`
	AssignedDate string                  `json:"assigned_date"`
	WeekOf       string                  `json:"week_of"`
	CompletedAt  *time.Time              `json:"completed_at"`
	Title        string                  `json:"title,omitempty"`
	Points       int                     `json:"points,omitempty"`
	IsBonus      bool                    `json:"is_bonus"`
}

// ToAssignmentDTO converts an assignment (with its template preloaded) to
// its response shape. Dates are rendered as calendar days.
func ToAssignmentDTO(assignment models.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:           assignment.ID,
		TemplateID:   assignment.TemplateID,
		FamilyID:     assignment.FamilyID,
		AssignedTo:   assignment.AssignedTo,
		Status:       assignment.Status,
		AssignedDate: assignment.AssignedDate.Format(time.DateOnly),
		WeekOf:       assignment.WeekOf.Format(time.DateOnly),
		CompletedAt:  assignment.CompletedAt,
		Title:        assignment.Template.Title,
		Points:       assignment.Template.Points,
		IsBonus:      assignment.Template.IsBonus,
	}
}

// ToAssignmentDTOs converts an assignment list
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = ToAssignmentDTO(a)
	}
	return dtos
}

// ShuffleResponse is the payload returned by the shuffle endpoint
type ShuffleResponse struct {
	WeekOf             string          `json:"week_of"`
	CreatedCount       int             `json:"created_count"`
	SkippedTemplateIDs []uint64        `json:"skipped_template_ids,omitempty"`
	Assignments        []AssignmentDTO `json:"assignments"`
}
