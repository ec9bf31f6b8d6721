package repository

import (
	"github.com/altomira/chorequest-api/internal/models"
	"gorm.io/gorm"
)

// GormFamilyRepository is a GORM implementation of FamilyRepository
type GormFamilyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new FamilyRepository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &GormFamilyRepository{db: db}
}

// Create creates a new family
func (r *GormFamilyRepository) Create(family *models.Family) error {
	return r.db.Create(family).Error
}

// FindByID finds a family by ID
func (r *GormFamilyRepository) FindByID(id uint64) (*models.Family, error) {
	var family models.Family
	if err := r.db.First(&family, id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// FindByInviteCode finds a family by invite code
func (r *GormFamilyRepository) FindByInviteCode(code string) (*models.Family, error) {
	var family models.Family
	if err := r.db.Where("invite_code = ?", code).First(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// Update updates a family
func (r *GormFamilyRepository) Update(family *models.Family) error {
	return r.db.Save(family).Error
}

// Delete deletes a family and all related data in a transaction
func (r *GormFamilyRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("family_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("family_id = ?", id).Delete(&models.TaskTemplate{}).Error; err != nil {
			return err
		}

		if err := tx.Where("family_id = ?", id).Delete(&models.FamilyMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Family{}, id).Error
	})
}

// AddMember adds a member to a family
func (r *GormFamilyRepository) AddMember(member *models.FamilyMember) error {
	return r.db.Create(member).Error
}

// UpdateMember persists changes to an existing membership
func (r *GormFamilyRepository) UpdateMember(member *models.FamilyMember) error {
	return r.db.Save(member).Error
}

// RemoveMember removes a member from a family
func (r *GormFamilyRepository) RemoveMember(familyID, userID uint64) error {
	return r.db.Where("family_id = ? AND user_id = ?", familyID, userID).
		Delete(&models.FamilyMember{}).Error
}

// FindMember finds a specific family member
func (r *GormFamilyRepository) FindMember(familyID, userID uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.Where("family_id = ? AND user_id = ?", familyID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all families a user is a member of
func (r *GormFamilyRepository) ListMembersByUserID(userID uint64) ([]models.FamilyMember, error) {
	var memberships []models.FamilyMember
	if err := r.db.Preload("Family").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a family
func (r *GormFamilyRepository) ListMembers(familyID uint64) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if err := r.db.Preload("User").
		Where("family_id = ?", familyID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListActiveMemberIDs lists the user IDs of a family's active roster,
// ordered by user ID for a stable shuffle input.
func (r *GormFamilyRepository) ListActiveMemberIDs(familyID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.FamilyMember{}).
		Where("family_id = ? AND is_active = ?", familyID, true).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
