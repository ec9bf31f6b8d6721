package repository

import (
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/utils"
)

// TemplateRepository defines the interface for task template data access.
type TemplateRepository interface {
	// Create creates a template together with its ordered member list
	Create(template *models.TaskTemplate, memberIDs []uint64) error

	// FindByID finds a template scoped to a family, with members preloaded
	FindByID(id, familyID uint64) (*models.TaskTemplate, error)

	// List retrieves all templates of a family
	List(familyID uint64) ([]models.TaskTemplate, error)

	// ListActive retrieves the active templates of a family, members preloaded.
	// This is the shuffle engine's template source.
	ListActive(familyID uint64) ([]models.TaskTemplate, error)

	// Update updates a template; a non-nil memberIDs replaces the member list
	Update(template *models.TaskTemplate, memberIDs []uint64) error

	// Delete soft deletes a template and its member list
	Delete(id uint64) error
}

// FamilyRepository defines the interface for family and roster data access.
type FamilyRepository interface {
	Create(family *models.Family) error
	FindByID(id uint64) (*models.Family, error)
	FindByInviteCode(code string) (*models.Family, error)
	Update(family *models.Family) error
	Delete(id uint64) error

	AddMember(member *models.FamilyMember) error
	UpdateMember(member *models.FamilyMember) error
	RemoveMember(familyID, userID uint64) error
	FindMember(familyID, userID uint64) (*models.FamilyMember, error)
	ListMembersByUserID(userID uint64) ([]models.FamilyMember, error)
	ListMembers(familyID uint64) ([]models.FamilyMember, error)

	// ListActiveMemberIDs is the roster the shuffle engine distributes over
	ListActiveMemberIDs(familyID uint64) ([]uint64, error)
}

// AssignmentFilter narrows week/day assignment listings.
type AssignmentFilter struct {
	UserID *uint64
	Status *models.AssignmentStatus
}

// AssignmentRepository owns assignment rows and their bulk transitions.
type AssignmentRepository interface {
	// FindByID finds an assignment scoped to a family, template preloaded
	FindByID(id, familyID uint64) (*models.Assignment, error)

	// ListWeek lists a family's assignments for the week anchored at weekOf
	ListWeek(familyID uint64, weekOf time.Time, filter AssignmentFilter) ([]models.Assignment, error)

	// ListForDate lists a family's assignments on one calendar date
	ListForDate(familyID uint64, date time.Time, filter AssignmentFilter) ([]models.Assignment, error)

	// ListForUserDate lists one member's assignments on a date, templates preloaded
	ListForUserDate(userID, familyID uint64, date time.Time) ([]models.Assignment, error)

	// Update persists a single assignment's mutated state
	Update(assignment *models.Assignment) error

	// ReplaceWeekPending deletes the PENDING rows of (family, week) and
	// inserts the new batch as one atomic unit. Completed, overdue and
	// cancelled rows survive untouched.
	ReplaceWeekPending(familyID uint64, weekOf time.Time, assignments []models.Assignment) error

	// ListOverduePending lists PENDING rows dated strictly before the cutoff
	ListOverduePending(familyID uint64, before time.Time) ([]models.Assignment, error)

	// MarkOverdue transitions the given rows to OVERDUE in one batch
	MarkOverdue(ids []uint64) error
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error

	// CreateWithPersonalFamily creates a user, their personal family, and the
	// owner membership within a single transaction.
	CreateWithPersonalFamily(user *models.User, family *models.Family, member *models.FamilyMember) error

	FindByID(id uint64) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// PointsRepository is the ledger collaborator the completion service awards
// through. Award idempotency is the ledger's concern: the assignment
// reference is unique per entry.
type PointsRepository interface {
	// Award appends a ledger entry for a completed assignment
	Award(userID, familyID uint64, amount int, assignmentID uint64) error

	// TotalsByFamily sums awarded points per member of a family
	TotalsByFamily(familyID uint64) (map[uint64]int, error)

	// History pages through a family's ledger, newest first, optionally
	// restricted to one member. Returns the page and the unpaged count.
	History(familyID uint64, userID *uint64, params utils.PaginationParams) ([]models.PointEntry, int64, error)
}
