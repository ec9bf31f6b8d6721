package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/altomira/chorequest-api/internal/database"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ShuffleServiceTestSuite defines the test suite for ShuffleService
type ShuffleServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ShuffleService
}

// SetupTest runs before each test
func (suite *ShuffleServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Family{},
		&models.FamilyMember{},
		&models.TaskTemplate{},
		&models.TemplateMember{},
		&models.Assignment{},
		&models.PointEntry{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	suite.service = NewShuffleService(
		repository.NewTemplateRepository(suite.db),
		repository.NewFamilyRepository(suite.db),
		repository.NewAssignmentRepository(suite.db),
	)

	// Pin the clock to a Wednesday and the source of randomness
	suite.service.now = func() time.Time {
		return time.Date(2026, time.January, 7, 15, 30, 0, 0, time.UTC)
	}
	suite.service.rng = rand.New(rand.NewSource(1))
}

// TearDownTest runs after each test
func (suite *ShuffleServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *ShuffleServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *ShuffleServiceTestSuite) createTestFamily(name string) *models.Family {
	family := &models.Family{
		Name:       name,
		InviteCode: name + "_CODE",
	}
	suite.db.Create(family)
	return family
}

func (suite *ShuffleServiceTestSuite) createTestFamilyMember(familyID, userID uint64, active bool) *models.FamilyMember {
	member := &models.FamilyMember{
		FamilyID: familyID,
		UserID:   userID,
		Role:     models.RoleMember,
		IsActive: active,
		JoinedAt: time.Now(),
	}
	suite.db.Create(member)
	return member
}

func (suite *ShuffleServiceTestSuite) createTestTemplate(familyID uint64, title string, points, interval int, at models.AssignmentType, memberIDs ...uint64) *models.TaskTemplate {
	template := &models.TaskTemplate{
		FamilyID:       familyID,
		Title:          title,
		Points:         points,
		IntervalDays:   interval,
		IsActive:       true,
		AssignmentType: at,
	}
	suite.db.Create(template)
	for i, id := range memberIDs {
		suite.db.Create(&models.TemplateMember{TemplateID: template.ID, UserID: id, Position: i})
	}
	return template
}

func (suite *ShuffleServiceTestSuite) countAssignments(familyID uint64, status models.AssignmentStatus) int64 {
	var n int64
	suite.db.Model(&models.Assignment{}).
		Where("family_id = ? AND status = ?", familyID, status).
		Count(&n)
	return n
}

// TestShuffle_CreatesWeek tests that a shuffle expands active templates into
// pending assignments for the current week
func (suite *ShuffleServiceTestSuite) TestShuffle_CreatesWeek() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	suite.createTestFamilyMember(family.ID, bob.ID, true)
	suite.createTestTemplate(family.ID, "Dishes", 20, 1, models.AssignmentTypeAuto)
	suite.createTestTemplate(family.ID, "Vacuum", 30, 7, models.AssignmentTypeAuto)

	result, err := suite.service.Shuffle(family.ID, nil)

	suite.NoError(err)
	suite.Require().NotNil(result)
	// The pinned clock is Wednesday Jan 7; the week starts Monday Jan 5.
	suite.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), result.WeekOf)
	suite.Equal(8, result.CreatedCount)
	suite.Len(result.Assignments, 8)
	suite.Empty(result.SkippedTemplateIDs)
	for _, a := range result.Assignments {
		suite.Equal(models.AssignmentStatusPending, a.Status)
		suite.Equal(result.WeekOf, a.WeekOf)
	}
}

// TestShuffle_ReplacesPending tests that re-running for the same week does
// not accumulate rows
func (suite *ShuffleServiceTestSuite) TestShuffle_ReplacesPending() {
	alice := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	suite.createTestTemplate(family.ID, "Dishes", 20, 1, models.AssignmentTypeAuto)

	_, err := suite.service.Shuffle(family.ID, nil)
	suite.Require().NoError(err)
	result, err := suite.service.Shuffle(family.ID, nil)
	suite.Require().NoError(err)

	suite.Equal(7, result.CreatedCount)
	suite.Equal(int64(7), suite.countAssignments(family.ID, models.AssignmentStatusPending))
}

// TestShuffle_PreservesCompleted tests that completed rows survive a re-shuffle
func (suite *ShuffleServiceTestSuite) TestShuffle_PreservesCompleted() {
	alice := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	suite.createTestTemplate(family.ID, "Dishes", 20, 1, models.AssignmentTypeAuto)

	first, err := suite.service.Shuffle(family.ID, nil)
	suite.Require().NoError(err)

	done := first.Assignments[0]
	now := time.Now()
	suite.db.Model(&models.Assignment{}).
		Where("id = ?", done.ID).
		Updates(map[string]interface{}{"status": models.AssignmentStatusCompleted, "completed_at": now})

	second, err := suite.service.Shuffle(family.ID, nil)
	suite.Require().NoError(err)

	// 7 fresh pending rows plus the surviving completed one.
	suite.Equal(7, second.CreatedCount)
	suite.Len(second.Assignments, 8)
	suite.Equal(int64(1), suite.countAssignments(family.ID, models.AssignmentStatusCompleted))
}

// TestShuffle_EmptyRoster tests the error when no member is active
func (suite *ShuffleServiceTestSuite) TestShuffle_EmptyRoster() {
	alice := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, false)

	result, err := suite.service.Shuffle(family.ID, nil)

	suite.ErrorIs(err, ErrEmptyRoster)
	suite.Nil(result)
}

// TestShuffle_SkipsUnassignableTemplates tests that a FIXED template whose
// only listed member is inactive is reported, not silently dropped
func (suite *ShuffleServiceTestSuite) TestShuffle_SkipsUnassignableTemplates() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	suite.createTestFamilyMember(family.ID, bob.ID, false)
	fixed := suite.createTestTemplate(family.ID, "Trash", 10, 7, models.AssignmentTypeFixed, bob.ID)
	suite.createTestTemplate(family.ID, "Dishes", 20, 1, models.AssignmentTypeAuto)

	result, err := suite.service.Shuffle(family.ID, nil)

	suite.Require().NoError(err)
	suite.Equal([]uint64{fixed.ID}, result.SkippedTemplateIDs)
	suite.Equal(7, result.CreatedCount)
	for _, a := range result.Assignments {
		suite.Equal(alice.ID, a.AssignedTo)
	}
}

// TestShuffle_ExplicitWeek tests that a requested date snaps to its Monday
func (suite *ShuffleServiceTestSuite) TestShuffle_ExplicitWeek() {
	alice := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	suite.createTestTemplate(family.ID, "Vacuum", 30, 7, models.AssignmentTypeAuto)

	requested := time.Date(2026, time.January, 22, 0, 0, 0, 0, time.UTC) // a Thursday
	result, err := suite.service.Shuffle(family.ID, &requested)

	suite.Require().NoError(err)
	suite.Equal(time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC), result.WeekOf)
	suite.Equal(1, result.CreatedCount)
}

// TestShuffle_IgnoresInactiveTemplates tests that disabled templates produce
// no assignments
func (suite *ShuffleServiceTestSuite) TestShuffle_IgnoresInactiveTemplates() {
	alice := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, true)
	paused := suite.createTestTemplate(family.ID, "Garden", 40, 7, models.AssignmentTypeAuto)
	suite.db.Model(paused).Update("is_active", false)
	suite.createTestTemplate(family.ID, "Dishes", 20, 1, models.AssignmentTypeAuto)

	result, err := suite.service.Shuffle(family.ID, nil)

	suite.Require().NoError(err)
	suite.Equal(7, result.CreatedCount)
	for _, a := range result.Assignments {
		suite.NotEqual(paused.ID, a.TemplateID)
	}
}

// TestShuffleServiceTestSuite runs the test suite
func TestShuffleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShuffleServiceTestSuite))
}
