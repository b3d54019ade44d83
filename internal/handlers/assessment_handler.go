package handlers

import (
	"net/http"
	"strconv"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"github.com/LGEM-2025/scoring-service/internal/services"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService, logger utils.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
	}
}

// GetAssessment returns one assessment definition
// @Summary Get assessment
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Param include_questions query bool false "Include the ordered question list"
// @Success 200 {object} models.AssessmentDefinition
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "id")
	if assessmentID == 0 {
		return
	}

	var (
		assessment *models.AssessmentDefinition
		err        error
	)
	if c.Query("include_questions") == "true" {
		assessment, err = h.assessmentService.GetByIDWithQuestions(c.Request.Context(), assessmentID)
	} else {
		assessment, err = h.assessmentService.GetByID(c.Request.Context(), assessmentID)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GetAssessmentByKey looks an assessment up by its natural key
// @Summary Get assessment by key
// @Tags assessments
// @Produce json
// @Param language path string true "Language code"
// @Param tier path string true "Tier (foundation, higher)"
// @Param identifier path string true "Paper identifier"
// @Success 200 {object} models.AssessmentDefinition
// @Failure 404 {object} ErrorResponse
// @Router /assessments/key/{language}/{tier}/{identifier} [get]
func (h *AssessmentHandler) GetAssessmentByKey(c *gin.Context) {
	language := h.parseStringIDParam(c, "language")
	if language == "" {
		return
	}
	tier := h.parseStringIDParam(c, "tier")
	if tier == "" {
		return
	}
	identifier := h.parseStringIDParam(c, "identifier")
	if identifier == "" {
		return
	}

	assessment, err := h.assessmentService.GetByKey(c.Request.Context(), language, models.Tier(tier), identifier)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// ListAssessments lists assessment definitions with optional filters
// @Summary List assessments
// @Tags assessments
// @Produce json
// @Param language query string false "Language code"
// @Param tier query string false "Tier"
// @Param active query bool false "Only active assessments"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	filters := repositories.AssessmentFilters{}

	if language := c.Query("language"); language != "" {
		filters.Language = &language
	}
	if tierStr := c.Query("tier"); tierStr != "" {
		tier := models.Tier(tierStr)
		filters.Tier = &tier
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true"
		filters.Active = &active
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filters.Offset = offset
		}
	}

	assessments, total, err := h.assessmentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": assessments,
		"total":       total,
	})
}
