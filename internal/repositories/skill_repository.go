package repositories

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/gorm"
)

// SkillRepository appends and reads skill-breakdown rows for the trend
// dashboards.
type SkillRepository interface {
	Create(ctx context.Context, tx *gorm.DB, breakdown *models.SkillBreakdown) error
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.SkillBreakdown, error)
	GetByStudentAndDomain(ctx context.Context, tx *gorm.DB, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error)
}
