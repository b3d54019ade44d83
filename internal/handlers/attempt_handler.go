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

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	validator      *utils.Validator
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	validator *utils.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		validator:      validator,
	}
}

// StartAttempt creates a new attempt for a student
// @Summary Start attempt
// @Description Creates a new attempt with the next attempt number for (student, assessment)
// @Tags attempts
// @Accept json
// @Produce json
// @Param request body services.StartAttemptRequest true "Start attempt data"
// @Success 201 {object} SuccessResponse{data=models.AssessmentAttempt}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req services.StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting attempt",
		"assessment_id", req.AssessmentID,
		"student_id", req.StudentID)

	attempt, err := h.attemptService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Attempt started",
		Data:    attempt,
	})
}

// SubmitAttempt finalizes an attempt: grades every question, aggregates
// the performance breakdown and marks the attempt completed
// @Summary Submit attempt
// @Description Grades and finalizes an incomplete attempt; re-submission is rejected
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path uint true "Attempt ID"
// @Param request body services.SubmitAttemptRequest true "Answers"
// @Success 200 {object} SuccessResponse{data=services.AttemptResult}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "id")
	if attemptID == 0 {
		return
	}

	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.AttemptID = attemptID

	h.LogRequest(c, "Submitting attempt",
		"attempt_id", attemptID,
		"answers_count", len(req.Answers))

	result, err := h.attemptService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt submitted",
		Data:    result,
	})
}

// GetAttempt returns one attempt with its graded responses
// @Summary Get attempt
// @Tags attempts
// @Produce json
// @Param id path uint true "Attempt ID"
// @Success 200 {object} models.AssessmentAttempt
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "id")
	if attemptID == 0 {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetAttemptHistory lists a student's attempts for one assessment in
// attempt-number order
// @Summary Attempt history
// @Tags attempts
// @Produce json
// @Param student_id path string true "Student ID"
// @Param assessment_id path uint true "Assessment ID"
// @Success 200 {object} SuccessResponse
// @Router /attempts/student/{student_id}/assessment/{assessment_id} [get]
func (h *AttemptHandler) GetAttemptHistory(c *gin.Context) {
	studentID := h.parseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	attempts, err := h.attemptService.GetHistory(c.Request.Context(), studentID, assessmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt history",
		Data:    attempts,
	})
}

// ListAttempts lists attempts with optional filters
// @Summary List attempts
// @Tags attempts
// @Produce json
// @Param status query string false "Attempt status"
// @Param student_id query string false "Student ID"
// @Param assignment_id query string false "Assignment ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	filters := repositories.AttemptFilters{}

	if status := c.Query("status"); status != "" {
		filters.Status = models.AttemptStatus(status)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if assignmentID := c.Query("assignment_id"); assignmentID != "" {
		filters.AssignmentID = &assignmentID
	}
	if assessmentStr := c.Query("assessment_id"); assessmentStr != "" {
		if id, err := strconv.ParseUint(assessmentStr, 10, 32); err == nil {
			assessmentID := uint(id)
			filters.AssessmentID = &assessmentID
		}
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

	attempts, total, err := h.attemptService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"total":    total,
	})
}

// AbandonAttempt marks an incomplete attempt as abandoned
// @Summary Abandon attempt
// @Tags attempts
// @Produce json
// @Param id path uint true "Attempt ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/abandon [post]
func (h *AttemptHandler) AbandonAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "id")
	if attemptID == 0 {
		return
	}

	h.LogRequest(c, "Abandoning attempt", "attempt_id", attemptID)

	if err := h.attemptService.Abandon(c.Request.Context(), attemptID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt abandoned",
	})
}
