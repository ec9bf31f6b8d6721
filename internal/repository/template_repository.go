package repository

import (
	"github.com/altomira/chorequest-api/internal/models"
	"gorm.io/gorm"
)

// GormTemplateRepository is a GORM implementation of TemplateRepository
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &GormTemplateRepository{db: db}
}

// Create creates a template together with its ordered member list
func (r *GormTemplateRepository) Create(template *models.TaskTemplate, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		return replaceTemplateMembers(tx, template.ID, memberIDs)
	})
}

// FindByID finds a template scoped to a family, with members preloaded
func (r *GormTemplateRepository) FindByID(id, familyID uint64) (*models.TaskTemplate, error) {
	var template models.TaskTemplate
	if err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_members.position")
		}).
		Where("family_id = ?", familyID).
		First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// List retrieves all templates of a family
func (r *GormTemplateRepository) List(familyID uint64) ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate
	if err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_members.position")
		}).
		Where("family_id = ?", familyID).
		Order("created_at").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ListActive retrieves the active templates of a family, members preloaded
func (r *GormTemplateRepository) ListActive(familyID uint64) ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate
	if err := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_members.position")
		}).
		Where("family_id = ? AND is_active = ?", familyID, true).
		Order("created_at").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Update updates a template; a non-nil memberIDs replaces the member list
func (r *GormTemplateRepository) Update(template *models.TaskTemplate, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(template).Error; err != nil {
			return err
		}
		if memberIDs == nil {
			return nil
		}
		if err := tx.Where("template_id = ?", template.ID).
			Delete(&models.TemplateMember{}).Error; err != nil {
			return err
		}
		return replaceTemplateMembers(tx, template.ID, memberIDs)
	})
}

// Delete soft deletes a template and its member list
func (r *GormTemplateRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).
			Delete(&models.TemplateMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaskTemplate{}, id).Error
	})
}

func replaceTemplateMembers(tx *gorm.DB, templateID uint64, memberIDs []uint64) error {
	if len(memberIDs) == 0 {
		return nil
	}
	members := make([]models.TemplateMember, len(memberIDs))
	for i, userID := range memberIDs {
		members[i] = models.TemplateMember{
			TemplateID: templateID,
			UserID:     userID,
			Position:   i,
		}
	}
	return tx.Create(&members).Error
}
