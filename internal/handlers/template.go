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
	"github.com/gin-gonic/gin"
)

// TemplateHandler coordinates task template HTTP handlers.
type TemplateHandler struct {
	templateService *services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// ListTemplates returns all templates of the family.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	templates, err := h.templateService.ListTemplates(familyID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": dto.ToTemplateDTOs(templates)})
}

// CreateTemplate creates a new task template in the family.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return
	}

	type CreateTemplateRequest struct {
		Title          string                `json:"title" binding:"required"`
		Points         int                   `json:"points"`
		IntervalDays   int                   `json:"interval_days" binding:"required"`
		IsBonus        bool                  `json:"is_bonus"`
		AssignmentType models.AssignmentType `json:"assignment_type"`
		MemberIDs      []uint64              `json:"member_ids"`
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.templateService.CreateTemplate(services.CreateTemplateInput{
		FamilyID:       familyID,
		Title:          req.Title,
		Points:         req.Points,
		IntervalDays:   req.IntervalDays,
		IsBonus:        req.IsBonus,
		AssignmentType: req.AssignmentType,
		MemberIDs:      req.MemberIDs,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateDTO(*template))
}

// GetTemplate returns one template of the family.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	familyID, templateID, ok := templateScope(c)
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(templateID, familyID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTO(*template))
}

// UpdateTemplate partially updates a template.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	familyID, templateID, ok := templateScope(c)
	if !ok {
		return
	}

	type UpdateTemplateRequest struct {
		Title          *string                `json:"title"`
		Points         *int                   `json:"points"`
		IntervalDays   *int                   `json:"interval_days"`
		IsBonus        *bool                  `json:"is_bonus"`
		IsActive       *bool                  `json:"is_active"`
		AssignmentType *models.AssignmentType `json:"assignment_type"`
		MemberIDs      []uint64               `json:"member_ids"`
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.templateService.UpdateTemplate(templateID, familyID, services.UpdateTemplateInput{
		Title:          req.Title,
		Points:         req.Points,
		IntervalDays:   req.IntervalDays,
		IsBonus:        req.IsBonus,
		IsActive:       req.IsActive,
		AssignmentType: req.AssignmentType,
		MemberIDs:      req.MemberIDs,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateDTO(*template))
}

// DeleteTemplate deletes a template.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	familyID, templateID, ok := templateScope(c)
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(templateID, familyID); err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template deleted successfully",
	})
}

// SuggestTemplates asks the AI service for chore suggestions from free text.
func (h *TemplateHandler) SuggestTemplates(c *gin.Context) {
	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.templateService.SuggestTemplates(c.Request.Context(), req.Text)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func templateScope(c *gin.Context) (familyID, templateID uint64, ok bool) {
	familyID, exists := middleware.GetFamilyID(c)
	if !exists {
		apierrors.InternalError(c, "Family not found in context")
		return 0, 0, false
	}

	templateID, err := strconv.ParseUint(c.Param("template_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid template ID")
		return 0, 0, false
	}

	return familyID, templateID, true
}

func respondTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTemplateTitleRequired),
		errors.Is(err, services.ErrNegativePoints),
		errors.Is(err, services.ErrInvalidIntervalDays),
		errors.Is(err, services.ErrInvalidAssignmentType),
		errors.Is(err, services.ErrTemplateMembersMissing),
		errors.Is(err, services.ErrInvalidTemplateMember):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, err.Error()))
	case errors.Is(err, services.ErrAINoSuggestions),
		errors.Is(err, services.ErrAINoValidSuggestions):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
