package postgres

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db         *gorm.DB
	assessment repositories.AssessmentRepository
	attempt    repositories.AttemptRepository
	skill      repositories.SkillRepository
	progress   repositories.ProgressRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:         db,
		assessment: NewAssessmentPostgreSQL(db),
		attempt:    NewAttemptPostgreSQL(db),
		skill:      NewSkillPostgreSQL(db),
		progress:   NewProgressPostgreSQL(db),
	}
}

func (r *gormRepository) Assessment() repositories.AssessmentRepository {
	return r.assessment
}

func (r *gormRepository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *gormRepository) Skill() repositories.SkillRepository {
	return r.skill
}

func (r *gormRepository) Progress() repositories.ProgressRepository {
	return r.progress
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// session picks the transaction handle when one is supplied, otherwise
// the base connection.
func session(ctx context.Context, db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
