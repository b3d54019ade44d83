package repositories

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/gorm"
)

// ProgressRepository reads the class analytics sources: assignments,
// rosters, step-progress rows and legacy session rows. All read-only
// here; the admin tooling owns the writes.
type ProgressRepository interface {
	GetAssignment(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error)
	GetTopics(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.GrammarTopic, error)
	GetEnrolledStudents(ctx context.Context, tx *gorm.DB, classID string) ([]string, error)
	GetStepProgress(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.StepProgress, error)
	GetLegacySessions(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.LegacySession, error)
}
