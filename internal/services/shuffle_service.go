package services

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/altomira/chorequest-api/internal/scheduler"
)

var (
	ErrEmptyRoster       = errors.New("family has no active members")
	ErrShuffleInProgress = errors.New("a shuffle for this family is already running")
)

// ShuffleService regenerates a family's weekly assignments from its active
// templates. Concurrent shuffles for the same family are rejected rather than
// interleaved: the plan's load matrix is local to one run, so two overlapping
// runs would write conflicting weeks.
type ShuffleService struct {
	templateRepo   repository.TemplateRepository
	familyRepo     repository.FamilyRepository
	assignmentRepo repository.AssignmentRepository

	// now and rng are injection points for tests; rng nil means a fresh
	// time-seeded source per run.
	now func() time.Time
	rng *rand.Rand

	locks sync.Map // familyID -> *sync.Mutex
}

// NewShuffleService creates a new ShuffleService.
func NewShuffleService(templateRepo repository.TemplateRepository, familyRepo repository.FamilyRepository, assignmentRepo repository.AssignmentRepository) *ShuffleService {
	return &ShuffleService{
		templateRepo:   templateRepo,
		familyRepo:     familyRepo,
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

// ShuffleResult is the outcome of one shuffle run. Assignments holds the full
// week set: the newly created rows plus any completed/overdue rows that
// survived the re-shuffle.
type ShuffleResult struct {
	WeekOf             time.Time           `json:"week_of"`
	CreatedCount       int                 `json:"created_count"`
	SkippedTemplateIDs []uint64            `json:"skipped_template_ids,omitempty"`
	Assignments        []models.Assignment `json:"assignments"`
}

// Shuffle (re)generates the assignments of one week. A nil weekOf targets the
// current week, or the next one when invoked on a Sunday. Only PENDING rows
// of the target week are replaced; completed and overdue history is never
// touched, so re-running for the same week is idempotent with respect to
// acted-on instances.
func (s *ShuffleService) Shuffle(familyID uint64, weekOf *time.Time) (*ShuffleResult, error) {
	lock := s.familyLock(familyID)
	if !lock.TryLock() {
		return nil, ErrShuffleInProgress
	}
	defer lock.Unlock()

	week := scheduler.ResolveWeekOf(s.now(), weekOf)

	members, err := s.familyRepo.ListActiveMemberIDs(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrEmptyRoster
	}

	templates, err := s.templateRepo.ListActive(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	rng := s.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}

	plan := scheduler.BuildWeekPlan(templates, members, week, rng)

	rows := make([]models.Assignment, 0, len(plan.Placements))
	for _, p := range plan.Placements {
		rows = append(rows, models.Assignment{
			TemplateID:   p.TemplateID,
			FamilyID:     familyID,
			AssignedTo:   p.MemberID,
			Status:       models.AssignmentStatusPending,
			AssignedDate: p.Date,
			WeekOf:       plan.WeekOf,
		})
	}

	if err := s.assignmentRepo.ReplaceWeekPending(familyID, plan.WeekOf, rows); err != nil {
		return nil, fmt.Errorf("failed to replace week assignments: %w", err)
	}

	all, err := s.assignmentRepo.ListWeek(familyID, plan.WeekOf, repository.AssignmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to reload week: %w", err)
	}

	return &ShuffleResult{
		WeekOf:             plan.WeekOf,
		CreatedCount:       len(rows),
		SkippedTemplateIDs: plan.SkippedTemplateIDs,
		Assignments:        all,
	}, nil
}

func (s *ShuffleService) familyLock(familyID uint64) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(familyID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
