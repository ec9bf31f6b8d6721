package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/altomira/chorequest-api/internal/dto"
	apierrors "github.com/altomira/chorequest-api/internal/errors"
	"github.com/altomira/chorequest-api/internal/middleware"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/scheduler"
	"github.com/altomira/chorequest-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler coordinates shuffle, completion and progress HTTP
// handlers.
type AssignmentHandler struct {
	shuffleService    *services.ShuffleService
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(shuffleService *services.ShuffleService, assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		shuffleService:    shuffleService,
		assignmentService: assignmentService,
	}
}

// Shuffle (re)generates the family's assignments for a week. An optional
// week_of query parameter (YYYY-MM-DD) targets a specific week.
func (h *AssignmentHandler) Shuffle(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	var weekOf *time.Time
	if raw := c.Query("week_of"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid week_of, expected YYYY-MM-DD")
			return
		}
		weekOf = &parsed
	}

	result, err := h.shuffleService.Shuffle(familyID, weekOf)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ShuffleResponse{
		WeekOf:             result.WeekOf.Format(time.DateOnly),
		CreatedCount:       result.CreatedCount,
		SkippedTemplateIDs: result.SkippedTemplateIDs,
		Assignments:        dto.ToAssignmentDTOs(result.Assignments),
	})
}

// ListWeek returns the family's assignments for a week, optionally filtered
// by member and status. week_of defaults to the current week.
func (h *AssignmentHandler) ListWeek(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	weekOf := time.Now()
	if raw := c.Query("week_of"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid week_of, expected YYYY-MM-DD")
			return
		}
		weekOf = parsed
	}

	userID, ok := optionalUserID(c)
	if !ok {
		return
	}

	var status *models.AssignmentStatus
	if raw := c.Query("status"); raw != "" {
		s := models.AssignmentStatus(raw)
		switch s {
		case models.AssignmentStatusPending, models.AssignmentStatusCompleted,
			models.AssignmentStatusOverdue, models.AssignmentStatusCancelled:
			status = &s
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	assignments, err := h.assignmentService.ListWeek(familyID, weekOf, userID, status)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_of":     scheduler.WeekMonday(weekOf).Format(time.DateOnly),
		"assignments": dto.ToAssignmentDTOs(assignments),
	})
}

// ListForDate returns the family's assignments on one calendar date.
func (h *AssignmentHandler) ListForDate(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	raw := c.Query("date")
	if raw == "" {
		apierrors.BadRequest(c, "date is required, expected YYYY-MM-DD")
		return
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	userID, ok := optionalUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListForDate(familyID, date, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        scheduler.DateOnly(date).Format(time.DateOnly),
		"assignments": dto.ToAssignmentDTOs(assignments),
	})
}

// Complete marks one assignment as completed by the current user.
func (h *AssignmentHandler) Complete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	assignmentID, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return
	}

	assignment, err := h.assignmentService.Complete(assignmentID, familyID, userID)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// GetProgress returns the daily progress summary for a member. user_id
// defaults to the current user, date to today.
func (h *AssignmentHandler) GetProgress(c *gin.Context) {
	currentUserID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	userID := currentUserID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		userID = parsed
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	progress, err := h.assignmentService.GetProgress(userID, familyID, date)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}

// SweepOverdue transitions the family's stale pending assignments to
// overdue and returns the changed set.
func (h *AssignmentHandler) SweepOverdue(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	swept, err := h.assignmentService.SweepOverdue(familyID)
	if err != nil {
		apierrors.InternalError(c, "Failed to sweep overdue assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swept_count": len(swept),
		"assignments": dto.ToAssignmentDTOs(swept),
	})
}

func optionalUserID(c *gin.Context) (*uint64, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user_id")
		return nil, false
	}
	return &parsed, true
}

func respondAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAssignmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCannotComplete),
		errors.Is(err, services.ErrEmptyRoster):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotAssignee),
		errors.Is(err, services.ErrBonusLocked):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrShuffleInProgress):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
