package services

import (
	"testing"
	"time"

	"github.com/altomira/chorequest-api/internal/database"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/repository"
	"github.com/altomira/chorequest-api/internal/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FamilyServiceTestSuite defines the test suite for FamilyService
type FamilyServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *FamilyService
}

// SetupTest runs before each test
func (suite *FamilyServiceTestSuite) SetupTest() {
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

	suite.service = NewFamilyService(
		repository.NewFamilyRepository(suite.db),
		repository.NewPointsRepository(suite.db),
	)
}

// TearDownTest runs after each test
func (suite *FamilyServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *FamilyServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *FamilyServiceTestSuite) createTestFamily(name string) *models.Family {
	family := &models.Family{
		Name:       name,
		InviteCode: name + "_CODE",
	}
	suite.db.Create(family)
	return family
}

func (suite *FamilyServiceTestSuite) createTestFamilyMember(familyID, userID uint64, role models.FamilyRole) *models.FamilyMember {
	member := &models.FamilyMember{
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	suite.db.Create(member)
	return member
}

func (suite *FamilyServiceTestSuite) awardPoints(familyID, userID uint64, amount int, assignmentID uint64) {
	suite.db.Create(&models.PointEntry{
		UserID:       userID,
		FamilyID:     familyID,
		Amount:       amount,
		AssignmentID: assignmentID,
	})
}

// TestCreateFamily_Success tests family creation with an invite code
func (suite *FamilyServiceTestSuite) TestCreateFamily_Success() {
	owner := suite.createTestUser("alice")

	family, err := suite.service.CreateFamily(CreateFamilyInput{
		Name:    "The Does",
		OwnerID: owner.ID,
	})

	suite.Require().NoError(err)
	suite.Equal("The Does", family.Name)
	suite.NotEmpty(family.InviteCode)

	member, err := suite.service.familyRepo.FindMember(family.ID, owner.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleOwner, member.Role)
	suite.True(member.IsActive)
}

// TestCreateFamily_EmptyName tests the name validation
func (suite *FamilyServiceTestSuite) TestCreateFamily_EmptyName() {
	owner := suite.createTestUser("alice")

	_, err := suite.service.CreateFamily(CreateFamilyInput{
		Name:    "   ",
		OwnerID: owner.ID,
	})

	suite.ErrorIs(err, ErrInvalidFamilyName)
}

// TestJoinFamily_Success tests joining by invite code
func (suite *FamilyServiceTestSuite) TestJoinFamily_Success() {
	owner := suite.createTestUser("alice")
	joiner := suite.createTestUser("bob")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, owner.ID, models.RoleOwner)

	joined, err := suite.service.JoinFamily(joiner.ID, family.InviteCode)

	suite.Require().NoError(err)
	suite.Equal(family.ID, joined.ID)

	member, err := suite.service.familyRepo.FindMember(family.ID, joiner.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleMember, member.Role)
}

// TestJoinFamily_InvalidCode tests an unknown invite code
func (suite *FamilyServiceTestSuite) TestJoinFamily_InvalidCode() {
	joiner := suite.createTestUser("bob")

	_, err := suite.service.JoinFamily(joiner.ID, "nope")

	suite.ErrorIs(err, ErrInvalidInviteCode)
}

// TestJoinFamily_AlreadyMember tests the duplicate join guard
func (suite *FamilyServiceTestSuite) TestJoinFamily_AlreadyMember() {
	owner := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, owner.ID, models.RoleOwner)

	_, err := suite.service.JoinFamily(owner.ID, family.InviteCode)

	suite.ErrorIs(err, ErrAlreadyFamilyMember)
}

// TestRemoveMember_Self tests that removing yourself is rejected
func (suite *FamilyServiceTestSuite) TestRemoveMember_Self() {
	owner := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, owner.ID, models.RoleOwner)

	err := suite.service.RemoveMember(family.ID, owner.ID, owner.ID)

	suite.ErrorIs(err, ErrCannotRemoveYourself)
}

// TestSetMemberActive tests pausing a member without removing them
func (suite *FamilyServiceTestSuite) TestSetMemberActive() {
	owner := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, owner.ID, models.RoleOwner)

	member, err := suite.service.SetMemberActive(family.ID, owner.ID, false)

	suite.Require().NoError(err)
	suite.False(member.IsActive)

	// A paused member drops out of the shuffle roster.
	ids, err := suite.service.familyRepo.ListActiveMemberIDs(family.ID)
	suite.Require().NoError(err)
	suite.Empty(ids)
}

// TestInactiveMemberInsert tests that a member created paused stays paused
func (suite *FamilyServiceTestSuite) TestInactiveMemberInsert() {
	user := suite.createTestUser("alice")
	family := suite.createTestFamily("Home")

	member := &models.FamilyMember{
		FamilyID: family.ID,
		UserID:   user.ID,
		Role:     models.RoleMember,
		IsActive: false,
		JoinedAt: time.Now(),
	}
	suite.Require().NoError(suite.db.Create(member).Error)

	var got models.FamilyMember
	err := suite.db.Where("family_id = ? AND user_id = ?", family.ID, user.ID).First(&got).Error
	suite.Require().NoError(err)
	suite.False(got.IsActive)

	ids, err := suite.service.familyRepo.ListActiveMemberIDs(family.ID)
	suite.Require().NoError(err)
	suite.Empty(ids)
}

// TestLeaderboard tests totals ordering, including zero-point members
func (suite *FamilyServiceTestSuite) TestLeaderboard() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	carol := suite.createTestUser("carol")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, models.RoleOwner)
	suite.createTestFamilyMember(family.ID, bob.ID, models.RoleMember)
	suite.createTestFamilyMember(family.ID, carol.ID, models.RoleMember)

	suite.awardPoints(family.ID, alice.ID, 20, 1)
	suite.awardPoints(family.ID, bob.ID, 30, 2)
	suite.awardPoints(family.ID, bob.ID, 10, 3)

	entries, err := suite.service.Leaderboard(family.ID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)
	suite.Equal("bob", entries[0].Username)
	suite.Equal(40, entries[0].Points)
	suite.Equal("alice", entries[1].Username)
	suite.Equal(20, entries[1].Points)
	suite.Equal("carol", entries[2].Username)
	suite.Equal(0, entries[2].Points)
}

// TestPointHistory tests paging and the per-member filter
func (suite *FamilyServiceTestSuite) TestPointHistory() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	family := suite.createTestFamily("Home")
	suite.createTestFamilyMember(family.ID, alice.ID, models.RoleOwner)
	suite.createTestFamilyMember(family.ID, bob.ID, models.RoleMember)

	for i := uint64(1); i <= 5; i++ {
		suite.awardPoints(family.ID, alice.ID, 10, i)
	}
	suite.awardPoints(family.ID, bob.ID, 30, 6)

	page, total, err := suite.service.PointHistory(family.ID, nil, utils.PaginationParams{Page: 1, Limit: 4, Offset: 0})
	suite.Require().NoError(err)
	suite.Equal(int64(6), total)
	suite.Len(page, 4)

	page, total, err = suite.service.PointHistory(family.ID, nil, utils.PaginationParams{Page: 2, Limit: 4, Offset: 4})
	suite.Require().NoError(err)
	suite.Equal(int64(6), total)
	suite.Len(page, 2)

	page, total, err = suite.service.PointHistory(family.ID, &bob.ID, utils.PaginationParams{Page: 1, Limit: 4, Offset: 0})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(page, 1)
	suite.Equal(30, page[0].Amount)
}

// TestFamilyServiceTestSuite runs the test suite
func TestFamilyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}
