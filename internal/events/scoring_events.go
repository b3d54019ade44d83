package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of scoring events
type EventType string

const (
	// Attempt events
	EventAttemptCompleted EventType = "attempt.completed"

	// Analytics events
	EventReportGenerated EventType = "analytics.report_generated"
)

// ScoringEvent is the base event structure for all scoring events
type ScoringEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Attempt event payloads

type AttemptCompletedEvent struct {
	AttemptID       uint      `json:"attempt_id"`
	AssessmentID    uint      `json:"assessment_id"`
	AssignmentID    *string   `json:"assignment_id,omitempty"`
	StudentID       string    `json:"student_id"`
	AttemptNumber   int       `json:"attempt_number"`
	RawScore        int       `json:"raw_score"`
	TotalPossible   int       `json:"total_possible"`
	PercentageScore float64   `json:"percentage_score"`
	AutoSubmitted   bool      `json:"auto_submitted"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Analytics event payloads

type ReportGeneratedEvent struct {
	AssignmentID  string    `json:"assignment_id"`
	ClassID       string    `json:"class_id"`
	TotalStudents int       `json:"total_students"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Event factory functions

func NewAttemptCompletedEvent(attemptID, assessmentID uint, assignmentID *string, studentID string, attemptNumber, rawScore, totalPossible int, percentage float64, autoSubmitted bool, completedAt time.Time) *ScoringEvent {
	return &ScoringEvent{
		ID:        generateEventID(),
		Type:      EventAttemptCompleted,
		Timestamp: time.Now(),
		Source:    "scoring-service",
		Version:   "1.0",
		Data: AttemptCompletedEvent{
			AttemptID:       attemptID,
			AssessmentID:    assessmentID,
			AssignmentID:    assignmentID,
			StudentID:       studentID,
			AttemptNumber:   attemptNumber,
			RawScore:        rawScore,
			TotalPossible:   totalPossible,
			PercentageScore: percentage,
			AutoSubmitted:   autoSubmitted,
			CompletedAt:     completedAt,
		},
	}
}

func NewReportGeneratedEvent(assignmentID, classID string, totalStudents int, generatedAt time.Time) *ScoringEvent {
	return &ScoringEvent{
		ID:        generateEventID(),
		Type:      EventReportGenerated,
		Timestamp: time.Now(),
		Source:    "scoring-service",
		Version:   "1.0",
		Data: ReportGeneratedEvent{
			AssignmentID:  assignmentID,
			ClassID:       classID,
			TotalStudents: totalStudents,
			GeneratedAt:   generatedAt,
		},
	}
}

// Helper function to generate unique event IDs
func generateEventID() string {
	return watermill.NewUUID()
}
