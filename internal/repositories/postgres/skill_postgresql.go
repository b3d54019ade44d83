package postgres

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type SkillPostgreSQL struct {
	db *gorm.DB
}

func NewSkillPostgreSQL(db *gorm.DB) repositories.SkillRepository {
	return &SkillPostgreSQL{db: db}
}

func (s *SkillPostgreSQL) Create(ctx context.Context, tx *gorm.DB, breakdown *models.SkillBreakdown) error {
	return session(ctx, s.db, tx).Create(breakdown).Error
}

func (s *SkillPostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.SkillBreakdown, error) {
	var breakdowns []*models.SkillBreakdown
	if err := session(ctx, s.db, tx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&breakdowns).Error; err != nil {
		return nil, err
	}
	return breakdowns, nil
}

func (s *SkillPostgreSQL) GetByStudentAndDomain(ctx context.Context, tx *gorm.DB, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error) {
	var breakdowns []*models.SkillBreakdown
	if err := session(ctx, s.db, tx).
		Where("student_id = ? AND skill_domain = ?", studentID, domain).
		Order("created_at DESC").
		Find(&breakdowns).Error; err != nil {
		return nil, err
	}
	return breakdowns, nil
}
