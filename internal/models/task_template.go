package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentType string

const (
	AssignmentTypeFixed  AssignmentType = "FIXED"
	AssignmentTypeRotate AssignmentType = "ROTATE"
	AssignmentTypeAuto   AssignmentType = "AUTO"
)

// TaskTemplate is a reusable definition of a recurring chore. Shuffle expands
// active templates into dated Assignment rows for a week.
type TaskTemplate struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	FamilyID       uint64         `gorm:"not null;index" json:"family_id"`
	Title          string         `gorm:"not null" json:"title"`
	Points         int            `gorm:"not null;default:0" json:"points"`
	IntervalDays   int            `gorm:"not null;default:1" json:"interval_days"`
	IsBonus        bool           `gorm:"not null;default:false" json:"is_bonus"`
	IsActive       bool           `gorm:"not null" json:"is_active"`
	AssignmentType AssignmentType `gorm:"type:varchar(20);not null;default:'AUTO'" json:"assignment_type"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Family  Family           `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Members []TemplateMember `gorm:"foreignKey:TemplateID" json:"members,omitempty"`
}

// AssignedMemberIDs returns the ordered member list for FIXED/ROTATE
// templates. Members must be preloaded.
func (t *TaskTemplate) AssignedMemberIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// TemplateMember is the ordered member list of a FIXED or ROTATE template.
// Position preserves the order the family configured; ROTATE cycles through
// it and FIXED takes the first eligible entry.
type TemplateMember struct {
	TemplateID uint64    `gorm:"primarykey" json:"template_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Template TaskTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	User     User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
