package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment links a class to a set of grammar topics. Authored by the
// teacher tooling; read-only here.
type Assignment struct {
	ID      string `json:"id" gorm:"primaryKey;size:64"`
	Title   string `json:"title" gorm:"not null;size:200"`
	ClassID string `json:"class_id" gorm:"not null;size:64;index"`

	// []string of topic IDs
	TopicIDs datatypes.JSON `json:"topic_ids" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type GrammarTopic struct {
	ID       string `json:"id" gorm:"primaryKey;size:64"`
	Name     string `json:"name" gorm:"not null;size:200"`
	Category string `json:"category" gorm:"size:100"`
}

func (GrammarTopic) TableName() string {
	return "grammar_topics"
}

type Enrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ClassID   string    `json:"class_id" gorm:"not null;size:64;index"`
	StudentID string    `json:"student_id" gorm:"not null;size:64;index"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string {
	return "class_enrollments"
}

// StepProgress is the authoritative per-topic, per-student progress
// record: one row per (assignment, student, topic) tracking the
// lesson/practice/test ladder.
type StepProgress struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	AssignmentID string `json:"assignment_id" gorm:"not null;size:64;index"`
	StudentID    string `json:"student_id" gorm:"not null;size:64;index"`
	TopicID      string `json:"topic_id" gorm:"not null;size:64;index"`

	LessonCompleted   bool `json:"lesson_completed"`
	PracticeCompleted bool `json:"practice_completed"`
	TestCompleted     bool `json:"test_completed"`

	PracticeAttempts     int     `json:"practice_attempts"`
	TestAttempts         int     `json:"test_attempts"`
	BestPracticeAccuracy float64 `json:"best_practice_accuracy"`
	BestTestAccuracy     float64 `json:"best_test_accuracy"`

	GemsEarned       int        `json:"gems_earned"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	LastActivityAt   *time.Time `json:"last_activity_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StepProgress) TableName() string {
	return "grammar_step_progress"
}

// CompletedSteps counts how many of the three steps are done.
func (p *StepProgress) CompletedSteps() int {
	steps := 0
	if p.LessonCompleted {
		steps++
	}
	if p.PracticeCompleted {
		steps++
	}
	if p.TestCompleted {
		steps++
	}
	return steps
}

// LegacySession is a whole-session record from before step tracking
// existed. Used only as a fallback for totals that step progress has
// not populated, plus the free-text question log for mistake mining.
type LegacySession struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	AssignmentID string  `json:"assignment_id" gorm:"not null;size:64;index"`
	StudentID    string  `json:"student_id" gorm:"not null;size:64;index"`
	TopicID      *string `json:"topic_id" gorm:"size:64"`

	GemsEarned         int        `json:"gems_earned"`
	DurationSeconds    int        `json:"duration_seconds"`
	AccuracyPercentage float64    `json:"accuracy_percentage"`
	EndedAt            *time.Time `json:"ended_at"`

	// []QuestionAttemptLog
	QuestionLog datatypes.JSON `json:"question_log" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (LegacySession) TableName() string {
	return "grammar_sessions"
}

// QuestionAttemptLog is one entry of a legacy session's free-text
// question log.
type QuestionAttemptLog struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	WasCorrect   bool   `json:"was_correct"`
}
