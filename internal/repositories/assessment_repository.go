package repositories

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository reads the assessment/question catalog. The
// catalog is authored elsewhere; this service never writes it.
type AssessmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error)
	GetByKey(ctx context.Context, tx *gorm.DB, language string, tier models.Tier, identifier string) (*models.AssessmentDefinition, error)
	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.AssessmentDefinition, int64, error)
}
