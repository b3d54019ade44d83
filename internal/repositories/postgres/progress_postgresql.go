package postgres

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) GetAssignment(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := session(ctx, p.db, tx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (p *ProgressPostgreSQL) GetTopics(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.GrammarTopic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var topics []*models.GrammarTopic
	if err := session(ctx, p.db, tx).
		Where("id IN ?", ids).
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (p *ProgressPostgreSQL) GetEnrolledStudents(ctx context.Context, tx *gorm.DB, classID string) ([]string, error) {
	var studentIDs []string
	if err := session(ctx, p.db, tx).
		Model(&models.Enrollment{}).
		Where("class_id = ? AND is_active = ?", classID, true).
		Pluck("student_id", &studentIDs).Error; err != nil {
		return nil, err
	}
	return studentIDs, nil
}

func (p *ProgressPostgreSQL) GetStepProgress(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.StepProgress, error) {
	var rows []*models.StepProgress
	if err := session(ctx, p.db, tx).
		Where("assignment_id = ?", assignmentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *ProgressPostgreSQL) GetLegacySessions(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.LegacySession, error) {
	var rows []*models.LegacySession
	if err := session(ctx, p.db, tx).
		Where("assignment_id = ?", assignmentID).
		Order("ended_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
