package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/LGEM-2025/scoring-service/internal/aggregate"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
)

// SkillService derives per-domain skill rows from completed attempts and
// serves them to the trend dashboards.
type SkillService interface {
	ExtrapolateFromAttempt(ctx context.Context, attempt *models.AssessmentAttempt, assessment *models.AssessmentDefinition, breakdown aggregate.PerformanceBreakdown) error
	GetByStudent(ctx context.Context, studentID string) ([]*models.SkillBreakdown, error)
	GetByStudentAndDomain(ctx context.Context, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error)
}

type skillService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSkillService(repo repositories.Repository, logger *slog.Logger) SkillService {
	return &skillService{
		repo:   repo,
		logger: logger,
	}
}

// ExtrapolateFromAttempt writes one skill row for the assessment's
// modality. An attempt only measures the skill directly; contextual
// understanding and pace are approximated from the same response set,
// which is accepted as an estimate rather than a direct measurement.
func (s *skillService) ExtrapolateFromAttempt(ctx context.Context, attempt *models.AssessmentAttempt, assessment *models.AssessmentDefinition, breakdown aggregate.PerformanceBreakdown) error {
	itemCount := 0
	for _, stat := range breakdown.ByQuestionType {
		itemCount += stat.Total
	}

	row := &models.SkillBreakdown{
		StudentID:    attempt.StudentID,
		AttemptID:    attempt.ID,
		AssessmentID: attempt.AssessmentID,
		SkillDomain:  assessment.Modality,

		ComprehensionAccuracy:   breakdown.Percentage,
		ContextualUnderstanding: contextualUnderstanding(breakdown),

		RawScore:      breakdown.RawScore,
		PossibleScore: breakdown.TotalPossible,
		ItemCount:     itemCount,
		ElapsedTime:   attempt.TimeTaken,
	}

	if itemCount > 0 {
		row.ResponseTimePerItem = float64(attempt.TimeTaken) / float64(itemCount)
	}

	row.TotalReplays = totalReplays(attempt.AudioPlayCounts)
	if itemCount > 0 {
		row.PlaybackDependency = float64(row.TotalReplays) / float64(itemCount)
	}

	if err := s.repo.Skill().Create(ctx, nil, row); err != nil {
		return fmt.Errorf("failed to create skill breakdown: %w", err)
	}

	s.logger.Info("Skill breakdown extrapolated",
		"attempt_id", attempt.ID,
		"student_id", attempt.StudentID,
		"skill_domain", assessment.Modality,
		"comprehension_accuracy", row.ComprehensionAccuracy)

	return nil
}

func (s *skillService) GetByStudent(ctx context.Context, studentID string) ([]*models.SkillBreakdown, error) {
	rows, err := s.repo.Skill().GetByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill breakdowns: %w", err)
	}
	return rows, nil
}

func (s *skillService) GetByStudentAndDomain(ctx context.Context, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error) {
	rows, err := s.repo.Skill().GetByStudentAndDomain(ctx, nil, studentID, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill breakdowns: %w", err)
	}
	return rows, nil
}

// contextualUnderstanding averages the per-theme accuracy so a student
// who only scores within one theme ranks below one scoring evenly
// across all of them.
func contextualUnderstanding(breakdown aggregate.PerformanceBreakdown) float64 {
	if len(breakdown.ByTheme) == 0 {
		return 0
	}
	var sum float64
	for _, stat := range breakdown.ByTheme {
		sum += stat.Percentage
	}
	return sum / float64(len(breakdown.ByTheme))
}

func totalReplays(counts []byte) int {
	if len(counts) == 0 {
		return 0
	}
	var perQuestion map[string]int
	if err := json.Unmarshal(counts, &perQuestion); err != nil {
		return 0
	}
	total := 0
	for _, n := range perQuestion {
		total += n
	}
	return total
}
