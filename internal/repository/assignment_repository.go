package repository

import (
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// FindByID finds an assignment scoped to a family, template preloaded
func (r *GormAssignmentRepository) FindByID(id, familyID uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.
		Preload("Template").
		Where("family_id = ?", familyID).
		First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListWeek lists a family's assignments for the week anchored at weekOf
func (r *GormAssignmentRepository) ListWeek(familyID uint64, weekOf time.Time, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.
		Preload("Template").
		Where("family_id = ? AND week_of = ?", familyID, weekOf)
	return r.list(query, filter)
}

// ListForDate lists a family's assignments on one calendar date
func (r *GormAssignmentRepository) ListForDate(familyID uint64, date time.Time, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.
		Preload("Template").
		Where("family_id = ? AND assigned_date = ?", familyID, date)
	return r.list(query, filter)
}

func (r *GormAssignmentRepository) list(query *gorm.DB, filter AssignmentFilter) ([]models.Assignment, error) {
	if filter.UserID != nil {
		query = query.Where("assigned_to = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var assignments []models.Assignment
	if err := query.Order("assigned_date, id").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListForUserDate lists one member's assignments on a date, templates preloaded
func (r *GormAssignmentRepository) ListForUserDate(userID, familyID uint64, date time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.
		Preload("Template").
		Where("assigned_to = ? AND family_id = ? AND assigned_date = ?", userID, familyID, date).
		Order("id").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// Update persists a single assignment's mutated state
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

// ReplaceWeekPending deletes the PENDING rows of (family, week) and inserts
// the new batch atomically. A reader never observes a transiently empty week.
func (r *GormAssignmentRepository) ReplaceWeekPending(familyID uint64, weekOf time.Time, assignments []models.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("family_id = ? AND week_of = ? AND status = ?",
				familyID, weekOf, models.AssignmentStatusPending).
			Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
}

// ListOverduePending lists PENDING rows dated strictly before the cutoff
func (r *GormAssignmentRepository) ListOverduePending(familyID uint64, before time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.
		Where("family_id = ? AND status = ? AND assigned_date < ?",
			familyID, models.AssignmentStatusPending, before).
		Order("assigned_date, id").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// MarkOverdue transitions the given rows to OVERDUE in one batch
func (r *GormAssignmentRepository) MarkOverdue(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Assignment{}).
		Where("id IN ?", ids).
		Update("status", models.AssignmentStatusOverdue).Error
}
