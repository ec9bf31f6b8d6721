package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/altomira/chorequest-api/internal/dto"
	apierrors "github.com/altomira/chorequest-api/internal/errors"
	"github.com/altomira/chorequest-api/internal/middleware"
	"github.com/altomira/chorequest-api/internal/models"
	"github.com/altomira/chorequest-api/internal/services"
	"github.com/altomira/chorequest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// FamilyHandler coordinates family and roster HTTP handlers.
type FamilyHandler struct {
	familyService *services.FamilyService
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
	}
}

// CreateFamily creates a new family owned by the current user.
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateFamilyRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.CreateFamily(services.CreateFamilyInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFamilyDTO(*family, true))
}

// ListFamilies returns all families the user is a member of.
func (h *FamilyHandler) ListFamilies(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.familyService.ListFamiliesForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch families")
		return
	}

	type FamilyWithRole struct {
		dto.FamilyDTO
		Role models.FamilyRole `json:"role"`
	}

	families := make([]FamilyWithRole, 0, len(memberships))
	for _, m := range memberships {
		families = append(families, FamilyWithRole{
			FamilyDTO: dto.ToFamilyDTO(m.Family, m.Role == models.RoleOwner),
			Role:      m.Role,
		})
	}

	c.JSON(http.StatusOK, gin.H{"families": families})
}

// JoinFamily adds the current user to a family via invite code.
func (h *FamilyHandler) JoinFamily(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type JoinFamilyRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.JoinFamily(userID, req.InviteCode)
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDTO(*family, false))
}

// GetFamily returns a family with its member roster.
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	family, members, err := h.familyService.GetFamilyWithMembers(familyID)
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	memberInterface, _ := c.Get("family_member")
	member, _ := memberInterface.(models.FamilyMember)
	isOwner := member.Role == models.RoleOwner

	memberDTOs := make([]dto.FamilyMemberDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToFamilyMemberDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"family":  dto.ToFamilyDTO(*family, isOwner),
		"members": memberDTOs,
	})
}

// UpdateFamily renames a family.
func (h *FamilyHandler) UpdateFamily(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	type UpdateFamilyRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	family, err := h.familyService.UpdateFamilyName(familyID, req.Name)
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDTO(*family, true))
}

// DeleteFamily deletes a family with all of its data.
func (h *FamilyHandler) DeleteFamily(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	if err := h.familyService.DeleteFamily(familyID); err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Family deleted successfully",
	})
}

// RegenerateInviteCode replaces a family's invite code.
func (h *FamilyHandler) RegenerateInviteCode(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	family, err := h.familyService.RegenerateInviteCode(familyID)
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyDTO(*family, true))
}

// RemoveMember removes a member from the family.
func (h *FamilyHandler) RemoveMember(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.familyService.RemoveMember(familyID, targetID, actorID); err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// SetMemberActive toggles a member on or off the shuffle roster.
func (h *FamilyHandler) SetMemberActive(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetActiveRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.familyService.SetMemberActive(familyID, targetID, *req.IsActive)
	if err != nil {
		respondFamilyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   member.UserID,
		"is_active": member.IsActive,
	})
}

// GetLeaderboard returns lifetime point totals per member.
func (h *FamilyHandler) GetLeaderboard(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	entries, err := h.familyService.Leaderboard(familyID)
	if err != nil {
		apierrors.InternalError(c, "Failed to build leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// GetPointHistory returns a page of the family's point ledger, newest first.
// An optional user_id query parameter narrows it to one member.
func (h *FamilyHandler) GetPointHistory(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	var userID *uint64
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		userID = &parsed
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.familyService.PointHistory(familyID, userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch point history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": dto.ToPointEntryDTOs(entries),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondFamilyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFamilyNotFound),
		errors.Is(err, services.ErrFamilyMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidFamilyName),
		errors.Is(err, services.ErrInvalidInviteCode),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyFamilyMember):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
