package postgres

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error) {
	var assessment models.AssessmentDefinition
	if err := session(ctx, a.db, tx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error) {
	var assessment models.AssessmentDefinition
	if err := session(ctx, a.db, tx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) GetByKey(ctx context.Context, tx *gorm.DB, language string, tier models.Tier, identifier string) (*models.AssessmentDefinition, error) {
	var assessment models.AssessmentDefinition
	if err := session(ctx, a.db, tx).
		Where("language = ? AND tier = ? AND identifier = ?", language, tier, identifier).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.AssessmentDefinition, int64, error) {
	var assessments []*models.AssessmentDefinition
	var total int64

	query := session(ctx, a.db, tx).Model(&models.AssessmentDefinition{})

	if filters.Language != nil {
		query = query.Where("language = ?", *filters.Language)
	}
	if filters.Tier != nil {
		query = query.Where("tier = ?", *filters.Tier)
	}
	if filters.Modality != nil {
		query = query.Where("modality = ?", *filters.Modality)
	}
	if filters.Active != nil {
		query = query.Where("is_active = ?", *filters.Active)
	}

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

	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}
