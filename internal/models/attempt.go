package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptIncomplete AttemptStatus = "incomplete"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// AssessmentAttempt is one timed run of a student through an assessment.
// Created at start, mutated exactly once at submission. Retakes create a
// new attempt with the next attempt number.
type AssessmentAttempt struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	StudentID    string  `json:"student_id" gorm:"not null;size:64;index;uniqueIndex:uidx_attempt_seq" validate:"required"`
	AssessmentID uint    `json:"assessment_id" gorm:"not null;index;uniqueIndex:uidx_attempt_seq" validate:"required"`
	AssignmentID *string `json:"assignment_id" gorm:"size:64;index"`

	// 1-based, unique per (student, assessment). The composite unique
	// index serializes concurrent starts; creation retries on conflict.
	AttemptNumber int `json:"attempt_number" gorm:"not null;uniqueIndex:uidx_attempt_seq"`

	Status        AttemptStatus `json:"status" gorm:"not null;size:20;default:incomplete;index"`
	StartedAt     time.Time     `json:"started_at" gorm:"not null"`
	CompletedAt   *time.Time    `json:"completed_at"`
	TimeTaken     int           `json:"total_time_seconds"`
	AutoSubmitted bool          `json:"auto_submitted" gorm:"default:false"`

	RawScore           int     `json:"raw_score"`
	TotalPossibleScore int     `json:"total_possible_score"`
	PercentageScore    float64 `json:"percentage_score"`
	SectionAScore      int     `json:"section_a_score"`
	SectionBScore      int     `json:"section_b_score"`

	// map[questionID]replayCount, keyed by the question's string ID
	AudioPlayCounts datatypes.JSON `json:"audio_play_counts" gorm:"type:jsonb"`

	// aggregate.PerformanceBreakdown snapshot taken at submission
	PerformanceSummary datatypes.JSON `json:"performance_summary" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assessment AssessmentDefinition `json:"assessment" gorm:"foreignKey:AssessmentID"`
	Responses  []QuestionResponse   `json:"responses" gorm:"foreignKey:AttemptID"`
}

func (AssessmentAttempt) TableName() string {
	return "assessment_attempts"
}

// QuestionResponse is one graded answer at sub-question granularity.
// Theme, topic and type are denormalized from the question so the
// aggregator never needs a second lookup.
type QuestionResponse struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	AttemptID      uint         `json:"attempt_id" gorm:"not null;index"`
	QuestionID     uint         `json:"question_id" gorm:"not null;index"`
	QuestionNumber int          `json:"question_number" gorm:"not null"`
	SubQuestionID  *string      `json:"sub_question_id" gorm:"size:100"`
	QuestionType   QuestionType `json:"question_type" gorm:"not null;size:30"`

	StudentAnswer *string `json:"student_answer" gorm:"type:text"`
	IsCorrect     bool    `json:"is_correct" gorm:"not null"`
	PointsAwarded int     `json:"points_awarded" gorm:"not null"`
	MarksPossible int     `json:"marks_possible" gorm:"not null"`

	TimeSpentSeconds int    `json:"time_spent_seconds"`
	Theme            string `json:"theme" gorm:"not null;size:100"`
	Topic            string `json:"topic" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuestionResponse) TableName() string {
	return "question_responses"
}
