package models

import "time"

type MasteryLevel string

const (
	MasteryNotStarted MasteryLevel = "not_started"
	MasteryInProgress MasteryLevel = "in_progress"
	MasteryPracticing MasteryLevel = "practicing"
	MasteryTesting    MasteryLevel = "testing"
	MasteryMastered   MasteryLevel = "mastered"
)

// ClassAnalyticsReport is built on demand for the teacher dashboard.
// Never persisted; sub-sections degrade to empty/zero values when their
// source computation fails.
type ClassAnalyticsReport struct {
	AssignmentID    string                   `json:"assignment_id"`
	AssignmentTitle string                   `json:"assignment_title"`
	TotalStudents   int                      `json:"total_students"`
	Topics          []TopicInfo              `json:"topics"`
	CompletionStats CompletionStats          `json:"completion_stats"`
	AccuracyStats   AccuracyStats            `json:"accuracy_stats"`
	EngagementStats EngagementStats          `json:"engagement_stats"`
	Students        []StudentProgressSummary `json:"students"`
	CommonMistakes  []CommonMistake          `json:"common_mistakes"`
	GeneratedAt     time.Time                `json:"generated_at"`
}

type TopicInfo struct {
	TopicID  string `json:"topic_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type CompletionStats struct {
	LessonsCompleted  int `json:"lessons_completed"`
	PracticeCompleted int `json:"practice_completed"`
	TestsCompleted    int `json:"tests_completed"`
	FullyMastered     int `json:"fully_mastered"`
}

type AccuracyStats struct {
	AveragePracticeAccuracy float64  `json:"average_practice_accuracy"`
	AverageTestAccuracy     float64  `json:"average_test_accuracy"`
	HighestPerformer        string   `json:"highest_performer"`
	NeedsAttention          []string `json:"needs_attention"`
}

type EngagementStats struct {
	TotalSessions           int     `json:"total_sessions"`
	TotalTimeMinutes        int     `json:"total_time_minutes"`
	TotalGemsAwarded        int     `json:"total_gems_awarded"`
	AverageAttemptsPerTopic float64 `json:"average_attempts_per_topic"`
}

type StudentProgressSummary struct {
	StudentID         string              `json:"student_id"`
	StudentName       string              `json:"student_name"`
	OverallCompletion float64             `json:"overall_completion"`
	AverageAccuracy   float64             `json:"average_accuracy"`
	TotalTimeSpent    int                 `json:"total_time_spent"` // seconds
	TotalGemsEarned   int                 `json:"total_gems_earned"`
	MasteryLevel      MasteryLevel        `json:"mastery_level"`
	LastActivity      *time.Time          `json:"last_activity"`
	Topics            []TopicStepProgress `json:"topics"`
}

type TopicStepProgress struct {
	TopicID              string       `json:"topic_id"`
	TopicName            string       `json:"topic_name"`
	LessonCompleted      bool         `json:"lesson_completed"`
	PracticeCompleted    bool         `json:"practice_completed"`
	TestCompleted        bool         `json:"test_completed"`
	BestPracticeAccuracy float64      `json:"best_practice_accuracy"`
	BestTestAccuracy     float64      `json:"best_test_accuracy"`
	TopicMasteryLevel    MasteryLevel `json:"topic_mastery_level"`
	GemsEarned           int          `json:"gems_earned"`
}

type CommonMistake struct {
	Question       string  `json:"question"`
	Type           string  `json:"type"`
	IncorrectCount int     `json:"incorrect_count"`
	TotalAttempts  int     `json:"total_attempts"`
	FailRate       float64 `json:"fail_rate"`
}
