package services

import (
	"context"

	"github.com/LGEM-2025/scoring-service/internal/aggregate"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// ===== REPOSITORY MOCKS =====

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentDefinition), args.Error(1)
}

func (m *MockAssessmentRepository) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentDefinition, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentDefinition), args.Error(1)
}

func (m *MockAssessmentRepository) GetByKey(ctx context.Context, tx *gorm.DB, language string, tier models.Tier, identifier string) (*models.AssessmentDefinition, error) {
	args := m.Called(ctx, tx, language, tier, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentDefinition), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.AssessmentDefinition, int64, error) {
	args := m.Called(ctx, tx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.AssessmentDefinition), args.Get(1).(int64), args.Error(2)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) error {
	args := m.Called(ctx, tx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentAttempt, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentAttempt), args.Error(1)
}

func (m *MockAttemptRepository) FinalizeSubmission(ctx context.Context, tx *gorm.DB, attempt *models.AssessmentAttempt) (bool, error) {
	args := m.Called(ctx, tx, attempt)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AttemptStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) (int, error) {
	args := m.Called(ctx, tx, studentID, assessmentID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) GetByStudentAndAssessment(ctx context.Context, tx *gorm.DB, studentID string, assessmentID uint) ([]*models.AssessmentAttempt, error) {
	args := m.Called(ctx, tx, studentID, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssessmentAttempt), args.Error(1)
}

func (m *MockAttemptRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AttemptFilters) ([]*models.AssessmentAttempt, int64, error) {
	args := m.Called(ctx, tx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.AssessmentAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.QuestionResponse) error {
	args := m.Called(ctx, tx, responses)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetResponses(ctx context.Context, tx *gorm.DB, attemptID uint) ([]*models.QuestionResponse, error) {
	args := m.Called(ctx, tx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuestionResponse), args.Error(1)
}

type MockSkillRepository struct {
	mock.Mock
}

func (m *MockSkillRepository) Create(ctx context.Context, tx *gorm.DB, breakdown *models.SkillBreakdown) error {
	args := m.Called(ctx, tx, breakdown)
	return args.Error(0)
}

func (m *MockSkillRepository) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.SkillBreakdown, error) {
	args := m.Called(ctx, tx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SkillBreakdown), args.Error(1)
}

func (m *MockSkillRepository) GetByStudentAndDomain(ctx context.Context, tx *gorm.DB, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error) {
	args := m.Called(ctx, tx, studentID, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SkillBreakdown), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetAssignment(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockProgressRepository) GetTopics(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.GrammarTopic, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GrammarTopic), args.Error(1)
}

func (m *MockProgressRepository) GetEnrolledStudents(ctx context.Context, tx *gorm.DB, classID string) ([]string, error) {
	args := m.Called(ctx, tx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProgressRepository) GetStepProgress(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.StepProgress, error) {
	args := m.Called(ctx, tx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StepProgress), args.Error(1)
}

func (m *MockProgressRepository) GetLegacySessions(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.LegacySession, error) {
	args := m.Called(ctx, tx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LegacySession), args.Error(1)
}

// MockRepository aggregates the per-entity mocks and runs transactions
// inline with a nil tx handle.
type MockRepository struct {
	AssessmentRepo *MockAssessmentRepository
	AttemptRepo    *MockAttemptRepository
	SkillRepo      *MockSkillRepository
	ProgressRepo   *MockProgressRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		AssessmentRepo: new(MockAssessmentRepository),
		AttemptRepo:    new(MockAttemptRepository),
		SkillRepo:      new(MockSkillRepository),
		ProgressRepo:   new(MockProgressRepository),
	}
}

func (m *MockRepository) Assessment() repositories.AssessmentRepository { return m.AssessmentRepo }
func (m *MockRepository) Attempt() repositories.AttemptRepository       { return m.AttemptRepo }
func (m *MockRepository) Skill() repositories.SkillRepository           { return m.SkillRepo }
func (m *MockRepository) Progress() repositories.ProgressRepository     { return m.ProgressRepo }

func (m *MockRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// ===== SERVICE MOCKS =====

type MockSkillService struct {
	mock.Mock
}

func (m *MockSkillService) ExtrapolateFromAttempt(ctx context.Context, attempt *models.AssessmentAttempt, assessment *models.AssessmentDefinition, breakdown aggregate.PerformanceBreakdown) error {
	args := m.Called(ctx, attempt, assessment, breakdown)
	return args.Error(0)
}

func (m *MockSkillService) GetByStudent(ctx context.Context, studentID string) ([]*models.SkillBreakdown, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SkillBreakdown), args.Error(1)
}

func (m *MockSkillService) GetByStudentAndDomain(ctx context.Context, studentID string, domain models.SkillDomain) ([]*models.SkillBreakdown, error) {
	args := m.Called(ctx, studentID, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SkillBreakdown), args.Error(1)
}
