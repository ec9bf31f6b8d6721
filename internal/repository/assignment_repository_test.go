package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestReplaceWeekPending_DeleteAndInsertInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	weekOf := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	rows := []models.Assignment{
		{TemplateID: 1, FamilyID: 9, AssignedTo: 2, Status: models.AssignmentStatusPending, AssignedDate: weekOf, WeekOf: weekOf},
		{TemplateID: 1, FamilyID: 9, AssignedTo: 3, Status: models.AssignmentStatusPending, AssignedDate: weekOf.AddDate(0, 0, 1), WeekOf: weekOf},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `assignments`").
		WithArgs(uint64(9), weekOf, string(models.AssignmentStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO `assignments`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	err := repo.ReplaceWeekPending(9, weekOf, rows)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWeekPending_EmptyPlanOnlyDeletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	weekOf := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `assignments`").
		WithArgs(uint64(9), weekOf, string(models.AssignmentStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	err := repo.ReplaceWeekPending(9, weekOf, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWeekPending_InsertFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	weekOf := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	rows := []models.Assignment{
		{TemplateID: 1, FamilyID: 9, AssignedTo: 2, Status: models.AssignmentStatusPending, AssignedDate: weekOf, WeekOf: weekOf},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `assignments`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `assignments`").
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	err := repo.ReplaceWeekPending(9, weekOf, rows)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOverdue_BatchUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `assignments` SET").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.MarkOverdue([]uint64{4, 5, 6})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOverdue_NoIDsIsANoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	err := repo.MarkOverdue(nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
