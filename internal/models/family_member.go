package models

import "time"

type FamilyRole string

const (
	RoleOwner  FamilyRole = "owner"
	RoleMember FamilyRole = "member"
)

type FamilyMember struct {
	FamilyID uint64     `gorm:"primarykey" json:"family_id"`
	UserID   uint64     `gorm:"primarykey" json:"user_id"`
	Role     FamilyRole `gorm:"type:varchar(20);not null" json:"role"`
	IsActive bool       `gorm:"not null" json:"is_active"`
	JoinedAt time.Time  `json:"joined_at"`

	// Relations
	Family Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
