package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/LGEM-2025/scoring-service/internal/cache"
	"github.com/LGEM-2025/scoring-service/internal/config"
	"github.com/LGEM-2025/scoring-service/internal/events"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		FoundationSectionBoundary: 12,
		HigherSectionBoundary:     10,
		NeedsAttentionThreshold:   60,
	}
}

func newAttemptServiceForTest(t *testing.T, repo *MockRepository, skills *MockSkillService) AttemptService {
	t.Helper()
	publisher := events.NewMockEventPublisher(newTestLogger())
	return NewAttemptService(repo, newTestLogger(), utils.NewValidator(),
		cache.NewNoopCacheService(), publisher, skills, newTestConfig())
}

func mustJSON(t *testing.T, payload interface{}) datatypes.JSON {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return data
}

func testAssessmentWithQuestions(t *testing.T) *models.AssessmentDefinition {
	t.Helper()
	return &models.AssessmentDefinition{
		ID:       1,
		Language: "es",
		Tier:     models.TierFoundation,
		Modality: models.SkillListening,
		IsActive: true,
		Questions: []models.Question{
			{
				ID: 10, AssessmentID: 1, QuestionNumber: 1,
				Type: models.MultipleChoice, Marks: 1,
				Theme: "identity", Topic: "family",
				QuestionData: mustJSON(t, models.MultipleChoiceData{
					Items: []models.MultipleChoiceItem{
						{ID: "q1", Options: []string{"A", "B", "C"}, CorrectAnswer: "B"},
					},
				}),
			},
			{
				ID: 11, AssessmentID: 1, QuestionNumber: 50,
				Type: models.Dictation, Marks: 2,
				Theme: "school", Topic: "classroom",
				QuestionData: mustJSON(t, models.DictationData{
					Sentences: []models.DictationSentence{
						{ID: "sentence1", Gaps: []models.DictationGap{
							{ID: "gap1", CorrectText: "casa"},
							{ID: "gap2", CorrectText: "perro"},
						}},
					},
				}),
			},
		},
	}
}

// ===== START =====

func TestStartAttempt(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AssessmentRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
		Return(&models.AssessmentDefinition{ID: 1, IsActive: true, Tier: models.TierFoundation}, nil)
	repo.AttemptRepo.On("GetNextAttemptNumber", mock.Anything, mock.Anything, "student-1", uint(1)).
		Return(3, nil)
	repo.AttemptRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.AssessmentAttempt).ID = 7
		}).
		Return(nil)

	attempt, err := service.Start(context.Background(), &StartAttemptRequest{
		StudentID:    "student-1",
		AssessmentID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(7), attempt.ID)
	assert.Equal(t, 3, attempt.AttemptNumber)
	assert.Equal(t, models.AttemptIncomplete, attempt.Status)
	assert.False(t, attempt.StartedAt.IsZero())
	repo.AttemptRepo.AssertExpectations(t)
}

func TestStartAttempt_RetriesOnNumberConflict(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AssessmentRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
		Return(&models.AssessmentDefinition{ID: 1, IsActive: true, Tier: models.TierFoundation}, nil)
	repo.AttemptRepo.On("GetNextAttemptNumber", mock.Anything, mock.Anything, "student-1", uint(1)).
		Return(1, nil).Once()
	repo.AttemptRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(gorm.ErrDuplicatedKey).Once()
	repo.AttemptRepo.On("GetNextAttemptNumber", mock.Anything, mock.Anything, "student-1", uint(1)).
		Return(2, nil).Once()
	repo.AttemptRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	attempt, err := service.Start(context.Background(), &StartAttemptRequest{
		StudentID:    "student-1",
		AssessmentID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempt.AttemptNumber)
	repo.AttemptRepo.AssertExpectations(t)
}

func TestStartAttempt_ConflictAfterRetriesExhausted(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AssessmentRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
		Return(&models.AssessmentDefinition{ID: 1, IsActive: true, Tier: models.TierFoundation}, nil)
	repo.AttemptRepo.On("GetNextAttemptNumber", mock.Anything, mock.Anything, "student-1", uint(1)).
		Return(1, nil)
	repo.AttemptRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(gorm.ErrDuplicatedKey)

	_, err := service.Start(context.Background(), &StartAttemptRequest{
		StudentID:    "student-1",
		AssessmentID: 1,
	})

	require.Error(t, err)
	assert.True(t, IsConflict(err))
	repo.AttemptRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestStartAttempt_InactiveAssessment(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AssessmentRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).
		Return(&models.AssessmentDefinition{ID: 1, IsActive: false}, nil)

	_, err := service.Start(context.Background(), &StartAttemptRequest{
		StudentID:    "student-1",
		AssessmentID: 1,
	})

	assert.ErrorIs(t, err, ErrAssessmentInactive)
	repo.AttemptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartAttempt_ValidationFailure(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	_, err := service.Start(context.Background(), &StartAttemptRequest{AssessmentID: 1})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// ===== SUBMIT =====

func TestSubmitAttempt(t *testing.T) {
	repo := NewMockRepository()
	skills := new(MockSkillService)
	service := newAttemptServiceForTest(t, repo, skills)

	attempt := &models.AssessmentAttempt{
		ID: 9, StudentID: "student-1", AssessmentID: 1,
		AttemptNumber: 1, Status: models.AttemptIncomplete,
		StartedAt: time.Now().Add(-10 * time.Minute),
	}
	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).Return(attempt, nil)
	repo.AssessmentRepo.On("GetByIDWithQuestions", mock.Anything, mock.Anything, uint(1)).
		Return(testAssessmentWithQuestions(t), nil)
	repo.AttemptRepo.On("FinalizeSubmission", mock.Anything, mock.Anything, attempt).Return(true, nil)
	repo.AttemptRepo.On("CreateResponses", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	skills.On("ExtrapolateFromAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	result, err := service.Submit(context.Background(), &SubmitAttemptRequest{
		AttemptID: 9,
		Answers: []AnswerSubmission{
			{QuestionID: 10, Answer: json.RawMessage(`{"q1":"B"}`), TimeSpentSeconds: 20},
			{QuestionID: 11, Answer: json.RawMessage(`{"sentence1_gap1":"casa","sentence1_gap2":"gato"}`), TimeSpentSeconds: 45},
		},
		TotalTimeSeconds: 420,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Breakdown.RawScore)
	assert.Equal(t, 3, result.Breakdown.TotalPossible)
	assert.Equal(t, 66.67, result.Breakdown.Percentage)

	assert.Equal(t, models.AttemptCompleted, result.Attempt.Status)
	require.NotNil(t, result.Attempt.CompletedAt)
	assert.Equal(t, 420, result.Attempt.TimeTaken)
	assert.Equal(t, 1, result.Attempt.SectionAScore)
	assert.Equal(t, 1, result.Attempt.SectionBScore)
	assert.NotEmpty(t, result.Attempt.PerformanceSummary)

	require.Len(t, result.Responses, 3)
	for _, response := range result.Responses {
		assert.Equal(t, uint(9), response.AttemptID)
	}
	repo.AttemptRepo.AssertExpectations(t)
}

func TestSubmitAttempt_AlreadySubmitted(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, Status: models.AttemptCompleted}, nil)

	_, err := service.Submit(context.Background(), &SubmitAttemptRequest{AttemptID: 9})

	assert.ErrorIs(t, err, ErrAttemptAlreadySubmitted)
	repo.AttemptRepo.AssertNotCalled(t, "FinalizeSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAttempt_ConcurrentSubmitLosesRace(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	// Still incomplete at the pre-check, but another submission wins
	// the conditional update inside the transaction.
	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{
			ID: 9, StudentID: "student-1", AssessmentID: 1,
			Status: models.AttemptIncomplete,
		}, nil)
	repo.AssessmentRepo.On("GetByIDWithQuestions", mock.Anything, mock.Anything, uint(1)).
		Return(testAssessmentWithQuestions(t), nil)
	repo.AttemptRepo.On("FinalizeSubmission", mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil)

	_, err := service.Submit(context.Background(), &SubmitAttemptRequest{
		AttemptID: 9,
		Answers: []AnswerSubmission{
			{QuestionID: 10, Answer: json.RawMessage(`{"q1":"B"}`)},
		},
	})

	assert.ErrorIs(t, err, ErrAttemptAlreadySubmitted)
	repo.AttemptRepo.AssertNotCalled(t, "CreateResponses", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAttempt_AbandonedAttempt(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, Status: models.AttemptAbandoned}, nil)

	_, err := service.Submit(context.Background(), &SubmitAttemptRequest{AttemptID: 9})

	assert.ErrorIs(t, err, ErrAttemptNotActive)
}

func TestSubmitAttempt_NotFound(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(99)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Submit(context.Background(), &SubmitAttemptRequest{AttemptID: 99})

	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestSubmitAttempt_UnknownQuestionRejected(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, AssessmentID: 1, Status: models.AttemptIncomplete}, nil)
	repo.AssessmentRepo.On("GetByIDWithQuestions", mock.Anything, mock.Anything, uint(1)).
		Return(testAssessmentWithQuestions(t), nil)

	_, err := service.Submit(context.Background(), &SubmitAttemptRequest{
		AttemptID: 9,
		Answers: []AnswerSubmission{
			{QuestionID: 999, Answer: json.RawMessage(`{"q1":"B"}`)},
		},
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	repo.AttemptRepo.AssertNotCalled(t, "CreateResponses", mock.Anything, mock.Anything, mock.Anything)
}

// ===== ABANDON =====

func TestAbandonAttempt(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, Status: models.AttemptIncomplete}, nil)
	repo.AttemptRepo.On("UpdateStatus", mock.Anything, mock.Anything, uint(9), models.AttemptAbandoned).
		Return(nil)

	err := service.Abandon(context.Background(), 9)

	require.NoError(t, err)
	repo.AttemptRepo.AssertExpectations(t)
}

func TestAbandonAttempt_CompletedRejected(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, Status: models.AttemptCompleted}, nil)

	err := service.Abandon(context.Background(), 9)

	assert.ErrorIs(t, err, ErrAttemptAlreadySubmitted)
}

func TestAbandonAttempt_AlreadyAbandonedIsNoop(t *testing.T) {
	repo := NewMockRepository()
	service := newAttemptServiceForTest(t, repo, new(MockSkillService))

	repo.AttemptRepo.On("GetByID", mock.Anything, mock.Anything, uint(9)).
		Return(&models.AssessmentAttempt{ID: 9, Status: models.AttemptAbandoned}, nil)

	err := service.Abandon(context.Background(), 9)

	require.NoError(t, err)
	repo.AttemptRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
