package repository

import (
	"github.com/altomira/chorequest-api/internal/database"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/utils"
	"gorm.io/gorm"
)

// GormPointsRepository is a GORM implementation of PointsRepository
type GormPointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository creates a new PointsRepository
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &GormPointsRepository{db: db}
}

// Award appends a ledger entry for a completed assignment. The unique index
// on assignment_id makes a duplicate award fail instead of double-counting.
func (r *GormPointsRepository) Award(userID, familyID uint64, amount int, assignmentID uint64) error {
	entry := models.PointEntry{
		UserID:       userID,
		FamilyID:     familyID,
		Amount:       amount,
		AssignmentID: assignmentID,
	}
	return r.db.Create(&entry).Error
}

// TotalsByFamily sums awarded points per member of a family
func (r *GormPointsRepository) TotalsByFamily(familyID uint64) (map[uint64]int, error) {
	type row struct {
		UserID uint64
		Total  int
	}

	var rows []row
	if err := r.db.Model(&models.PointEntry{}).
		Select("user_id, SUM(amount) AS total").
		Where("family_id = ?", familyID).
		Group("user_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uint64]int, len(rows))
	for _, r := range rows {
		totals[r.UserID] = r.Total
	}
	return totals, nil
}

// History pages through a family's ledger, newest first
func (r *GormPointsRepository) History(familyID uint64, userID *uint64, params utils.PaginationParams) ([]models.PointEntry, int64, error) {
	query := r.db.Model(&models.PointEntry{}).Where("family_id = ?", familyID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.PointEntry
	if err := query.
		Scopes(database.Paginate(params)).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
