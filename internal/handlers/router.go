package handlers

import (
	"github.com/LGEM-2025/scoring-service/internal/services"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	attemptHandler    *AttemptHandler
	skillHandler      *SkillHandler
	analyticsHandler  *AnalyticsHandler
}

func NewHandlerManager(
	assessmentService services.AssessmentService,
	attemptService services.AttemptService,
	skillService services.SkillService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(assessmentService, logger),
		attemptHandler:    NewAttemptHandler(attemptService, validator, logger),
		skillHandler:      NewSkillHandler(skillService, logger),
		analyticsHandler:  NewAnalyticsHandler(analyticsService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Assessment catalog routes (read-only)
		assessments := v1.Group("/assessments")
		{
			assessments.GET("", hm.assessmentHandler.ListAssessments)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.GET("/key/:language/:tier/:identifier", hm.assessmentHandler.GetAssessmentByKey)
		}

		// Attempt routes
		attempts := v1.Group("/attempts")
		{
			attempts.POST("/start", hm.attemptHandler.StartAttempt)
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)
			attempts.POST("/:id/abandon", hm.attemptHandler.AbandonAttempt)
			attempts.GET("/student/:student_id/assessment/:assessment_id", hm.attemptHandler.GetAttemptHistory)
		}

		// Skill trend routes
		students := v1.Group("/students")
		{
			students.GET("/:student_id/skills", hm.skillHandler.GetStudentSkills)
		}

		// Class analytics routes
		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id/analytics", hm.analyticsHandler.GetClassReport)
			assignments.GET("/:id/analytics/export", hm.analyticsHandler.ExportClassReport)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "scoring-service",
		})
	})
}
