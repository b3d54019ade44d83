package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/LGEM-2025/scoring-service/internal/services"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetClassReport builds the class analytics report for an assignment
// @Summary Class analytics report
// @Description Merged step-progress and legacy-session analytics for one assignment
// @Tags analytics
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} SuccessResponse{data=models.ClassAnalyticsReport}
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /assignments/{id}/analytics [get]
func (h *AnalyticsHandler) GetClassReport(c *gin.Context) {
	assignmentID := h.parseStringIDParam(c, "id")
	if assignmentID == "" {
		return
	}

	h.LogRequest(c, "Generating class report", "assignment_id", assignmentID)

	report, err := h.analyticsService.ClassReport(c.Request.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, services.ErrPartialAnalyticsFailure) && report != nil {
			c.JSON(http.StatusOK, SuccessResponse{
				Message: "Class report (partial)",
				Data:    report,
				Partial: true,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Class report",
		Data:    report,
	})
}

// ExportClassReport downloads the class analytics report as a workbook
// @Summary Export class report
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Assignment ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id}/analytics/export [get]
func (h *AnalyticsHandler) ExportClassReport(c *gin.Context) {
	assignmentID := h.parseStringIDParam(c, "id")
	if assignmentID == "" {
		return
	}

	h.LogRequest(c, "Exporting class report", "assignment_id", assignmentID)

	data, filename, err := h.exportService.ExportClassReport(c.Request.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}
