package repositories

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository persists assessment attempts and their graded
// responses.
type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error)
	GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error)

	// FinalizeSubmission writes the graded scores and flips the attempt
	// to completed, conditional on it still being incomplete. Returns
	// false when a concurrent submission already completed it.
	FinalizeSubmission(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) (bool, error)

	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AttemptStatus) error

	// GetNextAttemptNumber returns max(attempt_number)+1 for the pair,
	// or 1 when no attempts exist. The read is not atomic with the
	// insert; Create retries on the composite unique index conflict.
	GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) (int, error)

	GetByStudentAndAssessment(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) ([]*models.AssessmentAttempt, error)
	List(ctx context.Context, tx *gorm.DB, filters AttemptFilters) ([]*models.AssessmentAttempt, int64, error)

	CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.QuestionResponse) error
	GetResponses(ctx context.Context, tx *gorm.DB, attemptID uint) ([]*models.QuestionResponse, error)
}
