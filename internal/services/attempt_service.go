package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LGEM-2025/scoring-service/internal/aggregate"
	"github.com/LGEM-2025/scoring-service/internal/cache"
	"github.com/LGEM-2025/scoring-service/internal/config"
	"github.com/LGEM-2025/scoring-service/internal/events"
	"github.com/LGEM-2025/scoring-service/internal/grading"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"gorm.io/gorm"
)

const (
	maxAttemptCreateRetries = 3
	assessmentCacheTTL      = 10 * time.Minute
)

// AttemptService owns the attempt lifecycle: start, submit-once scoring,
// reads and abandonment.
type AttemptService interface {
	Start(ctx context.Context, req *StartAttemptRequest) (*models.AssessmentAttempt, error)
	Submit(ctx context.Context, req *SubmitAttemptRequest) (*AttemptResult, error)
	GetByID(ctx context.Context, id uint) (*models.AssessmentAttempt, error)
	GetHistory(ctx context.Context, studentID string, assessmentID uint) ([]*models.AssessmentAttempt, error)
	List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.AssessmentAttempt, int64, error)
	Abandon(ctx context.Context, id uint) error
}

// ===== DATA STRUCTURES =====

type StartAttemptRequest struct {
	StudentID    string  `json:"student_id" validate:"required"`
	AssessmentID uint    `json:"assessment_id" validate:"required"`
	AssignmentID *string `json:"assignment_id,omitempty"`
}

type AnswerSubmission struct {
	QuestionID       uint            `json:"question_id" validate:"required"`
	Answer           json.RawMessage `json:"answer"`
	TimeSpentSeconds int             `json:"time_spent_seconds" validate:"gte=0"`
}

type SubmitAttemptRequest struct {
	AttemptID        uint               `json:"attempt_id" validate:"required"`
	Answers          []AnswerSubmission `json:"answers" validate:"dive"`
	TotalTimeSeconds int                `json:"total_time_seconds" validate:"gte=0"`
	AudioPlayCounts  map[string]int     `json:"audio_play_counts,omitempty"`
	AutoSubmitted    bool               `json:"auto_submitted"`
}

type AttemptResult struct {
	Attempt   *models.AssessmentAttempt      `json:"attempt"`
	Responses []models.QuestionResponse      `json:"responses"`
	Breakdown aggregate.PerformanceBreakdown `json:"breakdown"`
}

type attemptService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	cache     cache.CacheService
	publisher events.EventPublisher
	skills    SkillService
	cfg       *config.Config
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator, cacheService cache.CacheService, publisher events.EventPublisher, skills SkillService, cfg *config.Config) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheService,
		publisher: publisher,
		skills:    skills,
		cfg:       cfg,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) Start(ctx context.Context, req *StartAttemptRequest) (*models.AssessmentAttempt, error) {
	s.logger.Info("Starting assessment attempt",
		"assessment_id", req.AssessmentID,
		"student_id", req.StudentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	assessment, err := s.getAssessment(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.IsActive {
		return nil, ErrAssessmentInactive
	}

	// The composite unique index on (student, assessment, attempt_number)
	// serializes concurrent starts; on conflict recompute and retry.
	var attempt *models.AssessmentAttempt
	for retry := 0; retry < maxAttemptCreateRetries; retry++ {
		number, err := s.repo.Attempt().GetNextAttemptNumber(ctx, nil, req.StudentID, req.AssessmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute attempt number: %w", err)
		}

		attempt = &models.AssessmentAttempt{
			StudentID:     req.StudentID,
			AssessmentID:  req.AssessmentID,
			AssignmentID:  req.AssignmentID,
			AttemptNumber: number,
			Status:        models.AttemptIncomplete,
			StartedAt:     time.Now(),
		}

		err = s.repo.Attempt().Create(ctx, nil, attempt)
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to create attempt: %w", err)
		}

		s.logger.Warn("Attempt number conflict, retrying",
			"assessment_id", req.AssessmentID,
			"student_id", req.StudentID,
			"attempt_number", number)
		attempt = nil
	}
	if attempt == nil {
		return nil, fmt.Errorf("%w: could not allocate attempt number after %d retries", ErrConflict, maxAttemptCreateRetries)
	}

	s.logger.Info("Assessment attempt started successfully",
		"attempt_id", attempt.ID,
		"attempt_number", attempt.AttemptNumber,
		"student_id", req.StudentID)

	return attempt, nil
}

func (s *attemptService) Submit(ctx context.Context, req *SubmitAttemptRequest) (*AttemptResult, error) {
	s.logger.Info("Submitting assessment attempt",
		"attempt_id", req.AttemptID,
		"answers_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, nil, req.AttemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.Status == models.AttemptCompleted {
		return nil, ErrAttemptAlreadySubmitted
	}
	if attempt.Status != models.AttemptIncomplete {
		return nil, ErrAttemptNotActive
	}

	assessment, err := s.getAssessmentWithQuestions(ctx, attempt.AssessmentID)
	if err != nil {
		return nil, err
	}

	sheet, err := s.buildAnswerSheet(assessment.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	for i := range assessment.Questions {
		if err := utils.ValidateQuestionData(&assessment.Questions[i]); err != nil {
			return nil, fmt.Errorf("invalid question %d: %w", assessment.Questions[i].ID, err)
		}
	}

	responses, err := grading.GradeQuestions(assessment.Questions, sheet)
	if err != nil {
		return nil, err
	}

	boundary := s.sectionBoundary(assessment)
	breakdown := aggregate.Performance(responses, boundary)

	now := time.Now()
	attempt.Status = models.AttemptCompleted
	attempt.CompletedAt = &now
	attempt.TimeTaken = req.TotalTimeSeconds
	attempt.AutoSubmitted = req.AutoSubmitted
	attempt.RawScore = breakdown.RawScore
	attempt.TotalPossibleScore = breakdown.TotalPossible
	attempt.PercentageScore = breakdown.Percentage
	attempt.SectionAScore = breakdown.Sections.ComprehensionScore
	attempt.SectionBScore = breakdown.Sections.DictationScore

	if attempt.PerformanceSummary, err = json.Marshal(breakdown); err != nil {
		return nil, fmt.Errorf("failed to marshal performance summary: %w", err)
	}
	if len(req.AudioPlayCounts) > 0 {
		if attempt.AudioPlayCounts, err = json.Marshal(req.AudioPlayCounts); err != nil {
			return nil, fmt.Errorf("failed to marshal audio play counts: %w", err)
		}
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		// The conditional update is the real submit-once guard; the
		// status pre-check above only short-circuits the common case.
		finalized, err := s.repo.Attempt().FinalizeSubmission(ctx, tx, attempt)
		if err != nil {
			return fmt.Errorf("failed to finalize attempt: %w", err)
		}
		if !finalized {
			return ErrAttemptAlreadySubmitted
		}

		rows := make([]*models.QuestionResponse, len(responses))
		for i := range responses {
			responses[i].AttemptID = attempt.ID
			rows[i] = &responses[i]
		}
		if err := s.repo.Attempt().CreateResponses(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to persist responses: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assessment attempt submitted successfully",
		"attempt_id", attempt.ID,
		"raw_score", breakdown.RawScore,
		"total_possible", breakdown.TotalPossible,
		"percentage", breakdown.Percentage)

	// Downstream work is best-effort: a failed skill write or event
	// publish never rolls back the submission.
	go s.afterSubmit(attempt, breakdown, assessment)

	return &AttemptResult{
		Attempt:   attempt,
		Responses: responses,
		Breakdown: breakdown,
	}, nil
}

func (s *attemptService) afterSubmit(attempt *models.AssessmentAttempt, breakdown aggregate.PerformanceBreakdown, assessment *models.AssessmentDefinition) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.skills.ExtrapolateFromAttempt(ctx, attempt, assessment, breakdown); err != nil {
		s.logger.Error("Failed to extrapolate skill breakdown",
			"attempt_id", attempt.ID,
			"error", err)
	}

	completedAt := attempt.StartedAt
	if attempt.CompletedAt != nil {
		completedAt = *attempt.CompletedAt
	}
	event := events.NewAttemptCompletedEvent(
		attempt.ID, attempt.AssessmentID, attempt.AssignmentID, attempt.StudentID,
		attempt.AttemptNumber, attempt.RawScore, attempt.TotalPossibleScore,
		attempt.PercentageScore, attempt.AutoSubmitted, completedAt)
	if err := s.publisher.PublishScoringEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish attempt completed event",
			"attempt_id", attempt.ID,
			"error", err)
	}

	if attempt.AssignmentID != nil {
		key := fmt.Sprintf("analytics:assignment:%s", *attempt.AssignmentID)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate analytics cache",
				"assignment_id", *attempt.AssignmentID,
				"error", err)
		}
	}
}

// ===== GET OPERATIONS =====

func (s *attemptService) GetByID(ctx context.Context, id uint) (*models.AssessmentAttempt, error) {
	attempt, err := s.repo.Attempt().GetByIDWithResponses(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return attempt, nil
}

func (s *attemptService) GetHistory(ctx context.Context, studentID string, assessmentID uint) ([]*models.AssessmentAttempt, error) {
	attempts, err := s.repo.Attempt().GetByStudentAndAssessment(ctx, nil, studentID, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt history: %w", err)
	}
	return attempts, nil
}

func (s *attemptService) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.AssessmentAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, total, nil
}

// ===== LIFECYCLE OPERATIONS =====

func (s *attemptService) Abandon(ctx context.Context, id uint) error {
	attempt, err := s.repo.Attempt().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.Status == models.AttemptCompleted {
		return ErrAttemptAlreadySubmitted
	}
	if attempt.Status == models.AttemptAbandoned {
		return nil
	}

	if err := s.repo.Attempt().UpdateStatus(ctx, nil, id, models.AttemptAbandoned); err != nil {
		return fmt.Errorf("failed to abandon attempt: %w", err)
	}

	s.logger.Info("Assessment attempt abandoned", "attempt_id", id)
	return nil
}

// ===== HELPERS =====

func (s *attemptService) getAssessment(ctx context.Context, id uint) (*models.AssessmentDefinition, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *attemptService) getAssessmentWithQuestions(ctx context.Context, id uint) (*models.AssessmentDefinition, error) {
	key := fmt.Sprintf("assessment:%d:questions", id)

	var cached models.AssessmentDefinition
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if err := s.cache.Set(ctx, key, assessment, assessmentCacheTTL); err != nil {
		s.logger.Warn("Failed to cache assessment", "assessment_id", id, "error", err)
	}

	return assessment, nil
}

func (s *attemptService) buildAnswerSheet(questions []models.Question, answers []AnswerSubmission) (grading.AnswerSheet, error) {
	known := make(map[uint]bool, len(questions))
	for i := range questions {
		known[questions[i].ID] = true
	}

	sheet := grading.AnswerSheet{
		Answers:   make(map[uint]json.RawMessage, len(answers)),
		TimeSpent: make(map[uint]int, len(answers)),
	}
	for _, answer := range answers {
		if !known[answer.QuestionID] {
			return sheet, NewValidationError("question_id",
				fmt.Sprintf("question %d does not belong to this assessment", answer.QuestionID),
				answer.QuestionID)
		}
		sheet.Answers[answer.QuestionID] = answer.Answer
		sheet.TimeSpent[answer.QuestionID] = answer.TimeSpentSeconds
	}
	return sheet, nil
}

func (s *attemptService) sectionBoundary(assessment *models.AssessmentDefinition) int {
	if assessment.SectionBoundary > 0 {
		return assessment.SectionBoundary
	}
	return s.cfg.SectionBoundary(string(assessment.Tier))
}
