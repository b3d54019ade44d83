package postgres

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) error {
	return session(ctx, a.db, tx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error) {
	var attempt models.AssessmentAttempt
	if err := session(ctx, a.db, tx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error) {
	var attempt models.AssessmentAttempt
	if err := session(ctx, a.db, tx).
		Preload("Assessment").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC, id ASC")
		}).
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) FinalizeSubmission(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) (bool, error) {
	result := session(ctx, a.db, tx).
		Model(&models.AssessmentAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, models.AttemptIncomplete).
		Select("status", "completed_at", "time_taken", "auto_submitted",
			"raw_score", "total_possible_score", "percentage_score",
			"section_a_score", "section_b_score",
			"audio_play_counts", "performance_summary").
		Updates(attempt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (a *AttemptPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AttemptStatus) error {
	return session(ctx, a.db, tx).
		Model(&models.AssessmentAttempt{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (a *AttemptPostgreSQL) GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) (int, error) {
	var maxNumber int
	err := session(ctx, a.db, tx).
		Model(&models.AssessmentAttempt{}).
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

func (a *AttemptPostgreSQL) GetByStudentAndAssessment(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) ([]*models.AssessmentAttempt, error) {
	var attempts []*models.AssessmentAttempt
	if err := session(ctx, a.db, tx).
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AttemptFilters) ([]*models.AssessmentAttempt, int64, error) {
	var attempts []*models.AssessmentAttempt
	var total int64

	query := session(ctx, a.db, tx).Model(&models.AssessmentAttempt{})
	query = applyAttemptFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (a *AttemptPostgreSQL) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.QuestionResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return session(ctx, a.db, tx).Create(responses).Error
}

func (a *AttemptPostgreSQL) GetResponses(ctx context.Context, tx *gorm.DB, attemptID uint) ([]*models.QuestionResponse, error) {
	var responses []*models.QuestionResponse
	if err := session(ctx, a.db, tx).
		Where("attempt_id = ?", attemptID).
		Order("question_number ASC, id ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func applyAttemptFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.AssessmentID != nil {
		query = query.Where("assessment_id = ?", *filters.AssessmentID)
	}
	if filters.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filters.AssignmentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("started_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("started_at <= ?", *filters.DateTo)
	}
	return query
}
