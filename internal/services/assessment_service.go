package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
)

// AssessmentService is the read-only catalog view. Definitions are
// authored elsewhere; this service only looks them up for attempt
// delivery and result pages.
type AssessmentService interface {
	GetByID(ctx context.Context, id uint) (*models.AssessmentDefinition, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.AssessmentDefinition, error)
	GetByKey(ctx context.Context, language string, tier models.Tier, identifier string) (*models.AssessmentDefinition, error)
	List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.AssessmentDefinition, int64, error)
}

type assessmentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAssessmentService(repo repositories.Repository, logger *slog.Logger) AssessmentService {
	return &assessmentService{
		repo:   repo,
		logger: logger,
	}
}

func (s *assessmentService) GetByID(ctx context.Context, id uint) (*models.AssessmentDefinition, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) GetByIDWithQuestions(ctx context.Context, id uint) (*models.AssessmentDefinition, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) GetByKey(ctx context.Context, language string, tier models.Tier, identifier string) (*models.AssessmentDefinition, error) {
	assessment, err := s.repo.Assessment().GetByKey(ctx, nil, language, tier, identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment by key: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.AssessmentDefinition, int64, error) {
	assessments, total, err := s.repo.Assessment().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, total, nil
}
