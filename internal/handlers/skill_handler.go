package handlers

import (
	"net/http"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/services"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	BaseHandler
	skillService services.SkillService
}

func NewSkillHandler(skillService services.SkillService, logger utils.Logger) *SkillHandler {
	return &SkillHandler{
		BaseHandler:  NewBaseHandler(logger),
		skillService: skillService,
	}
}

// GetStudentSkills lists a student's skill breakdown rows, optionally
// filtered to one domain
// @Summary Student skill breakdowns
// @Tags skills
// @Produce json
// @Param student_id path string true "Student ID"
// @Param domain query string false "Skill domain (listening, reading, writing, speaking)"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /students/{student_id}/skills [get]
func (h *SkillHandler) GetStudentSkills(c *gin.Context) {
	studentID := h.parseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	var (
		rows []*models.SkillBreakdown
		err  error
	)
	if domain := c.Query("domain"); domain != "" {
		rows, err = h.skillService.GetByStudentAndDomain(c.Request.Context(), studentID, models.SkillDomain(domain))
	} else {
		rows, err = h.skillService.GetByStudent(c.Request.Context(), studentID)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Skill breakdowns",
		Data:    rows,
	})
}
