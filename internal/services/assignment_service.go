package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/altomira/chorequest-api/internal/scheduler"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrCannotComplete     = errors.New("assignment can no longer be completed")
	ErrNotAssignee        = errors.New("only the assignee can complete this assignment")
	ErrBonusLocked        = errors.New("complete required tasks first")
)

// AssignmentService handles completion, progress and overdue transitions of
// assignment instances.
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	pointsRepo     repository.PointsRepository

	// now is the injected clock; tests pin it
	now func() time.Time
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, pointsRepo repository.PointsRepository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		pointsRepo:     pointsRepo,
		now:            time.Now,
	}
}

func (s *AssignmentService) today() time.Time {
	return scheduler.DateOnly(s.now())
}

// Complete transitions one assignment to COMPLETED on behalf of its assignee
// and awards the template's points. Bonus assignments are gated: they unlock
// only once every required (non-bonus) assignment of that member on that date
// is completed. A date with no required assignments leaves bonus work
// unconditionally unlocked.
func (s *AssignmentService) Complete(assignmentID, familyID, userID uint64) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID, familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	if !assignment.CanComplete() {
		return nil, ErrCannotComplete
	}
	if assignment.AssignedTo != userID {
		return nil, ErrNotAssignee
	}

	if assignment.Template.IsBonus {
		unlocked, err := s.bonusUnlocked(userID, familyID, assignment.AssignedDate)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, ErrBonusLocked
		}
	}

	completedAt := s.now()
	assignment.Status = models.AssignmentStatusCompleted
	assignment.CompletedAt = &completedAt

	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}

	// The award is not transactionally coupled to the completion: the
	// assignment reference on the ledger entry allows a failed award to be
	// replayed without double-counting.
	if err := s.pointsRepo.Award(userID, familyID, assignment.Template.Points, assignment.ID); err != nil {
		log.Printf("failed to award %d points for assignment %d: %v", assignment.Template.Points, assignment.ID, err)
	}

	return assignment, nil
}

// bonusUnlocked evaluates the gating rule for (user, date). Cancelled rows
// are void and count on neither side.
func (s *AssignmentService) bonusUnlocked(userID, familyID uint64, date time.Time) (bool, error) {
	assignments, err := s.assignmentRepo.ListForUserDate(userID, familyID, date)
	if err != nil {
		return false, fmt.Errorf("failed to load day assignments: %w", err)
	}

	total, completed := 0, 0
	for _, a := range assignments {
		if a.Template.IsBonus || a.Status == models.AssignmentStatusCancelled {
			continue
		}
		total++
		if a.Status == models.AssignmentStatusCompleted {
			completed++
		}
	}

	return total == 0 || completed >= total, nil
}

// ListWeek lists a family's assignments for the week containing weekOf,
// optionally filtered by member and status.
func (s *AssignmentService) ListWeek(familyID uint64, weekOf time.Time, userID *uint64, status *models.AssignmentStatus) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.ListWeek(familyID, scheduler.WeekMonday(weekOf), repository.AssignmentFilter{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list week assignments: %w", err)
	}
	return assignments, nil
}

// ListForDate lists a family's assignments on one calendar date.
func (s *AssignmentService) ListForDate(familyID uint64, date time.Time, userID *uint64) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.ListForDate(familyID, scheduler.DateOnly(date), repository.AssignmentFilter{
		UserID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list date assignments: %w", err)
	}
	return assignments, nil
}

// ProgressSummary is one member's standing for a single day.
type ProgressSummary struct {
	Date              time.Time `json:"date"`
	RequiredTotal     int       `json:"required_total"`
	RequiredCompleted int       `json:"required_completed"`
	BonusTotal        int       `json:"bonus_total"`
	BonusCompleted    int       `json:"bonus_completed"`
	BonusUnlocked     bool      `json:"bonus_unlocked"`
}

// GetProgress aggregates one member's assignments for a date, split into
// required and bonus work. A nil date means today.
func (s *AssignmentService) GetProgress(userID, familyID uint64, date *time.Time) (*ProgressSummary, error) {
	day := s.today()
	if date != nil {
		day = scheduler.DateOnly(*date)
	}

	assignments, err := s.assignmentRepo.ListForUserDate(userID, familyID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load day assignments: %w", err)
	}

	summary := &ProgressSummary{Date: day}
	for _, a := range assignments {
		if a.Status == models.AssignmentStatusCancelled {
			continue
		}
		if a.Template.IsBonus {
			summary.BonusTotal++
			if a.Status == models.AssignmentStatusCompleted {
				summary.BonusCompleted++
			}
		} else {
			summary.RequiredTotal++
			if a.Status == models.AssignmentStatusCompleted {
				summary.RequiredCompleted++
			}
		}
	}
	summary.BonusUnlocked = summary.RequiredCompleted >= summary.RequiredTotal

	return summary, nil
}

// SweepOverdue transitions every PENDING assignment dated before today to
// OVERDUE in one batch and returns the changed set. Completed and already
// overdue rows are never touched; with nothing stale the sweep writes
// nothing.
func (s *AssignmentService) SweepOverdue(familyID uint64) ([]models.Assignment, error) {
	stale, err := s.assignmentRepo.ListOverduePending(familyID, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue assignments: %w", err)
	}
	if len(stale) == 0 {
		return []models.Assignment{}, nil
	}

	ids := make([]uint64, len(stale))
	for i, a := range stale {
		ids[i] = a.ID
	}
	if err := s.assignmentRepo.MarkOverdue(ids); err != nil {
		return nil, fmt.Errorf("failed to mark assignments overdue: %w", err)
	}

	for i := range stale {
		stale[i].Status = models.AssignmentStatusOverdue
	}
	return stale, nil
}
