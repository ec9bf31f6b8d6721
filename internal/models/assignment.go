package models

import (
	"time"
)

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
	AssignmentStatusOverdue   AssignmentStatus = "OVERDUE"
	AssignmentStatusCancelled AssignmentStatus = "CANCELLED"
)

// Assignment is one dated instance of a template assigned to one member.
// Rows are created in bulk by Shuffle in PENDING state; only PENDING rows
// for a week are replaced on re-shuffle.
type Assignment struct {
	ID           uint64           `gorm:"primarykey" json:"id"`
	TemplateID   uint64           `gorm:"not null;index" json:"template_id"`
	FamilyID     uint64           `gorm:"not null;index" json:"family_id"`
	AssignedTo   uint64           `gorm:"not null;index" json:"assigned_to"`
	Status       AssignmentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	AssignedDate time.Time        `gorm:"type:date;not null;index" json:"assigned_date"`
	WeekOf       time.Time        `gorm:"type:date;not null;index" json:"week_of"`
	CompletedAt  *time.Time       `json:"completed_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relations
	Template TaskTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Assignee User         `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// CanComplete reports whether the assignment may still transition to
// COMPLETED. OVERDUE instances can be completed late.
func (a *Assignment) CanComplete() bool {
	return a.Status == AssignmentStatusPending || a.Status == AssignmentStatusOverdue
}

// IsOverdue is the derived read: still PENDING with an assigned date before
// today. The sweeper materializes this into the OVERDUE status.
func (a *Assignment) IsOverdue(today time.Time) bool {
	return a.Status == AssignmentStatusPending && a.AssignedDate.Before(today)
}
