package models

import "time"

// PointEntry is one ledger row written when an assignment is completed.
// AssignmentID is the idempotency reference for the award.
type PointEntry struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	FamilyID     uint64    `gorm:"not null;index" json:"family_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	AssignmentID uint64    `gorm:"not null;uniqueIndex" json:"assignment_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
