package models

import "time"

// SkillBreakdown is one append-only row per completed attempt per skill
// domain, feeding the longitudinal trend dashboards. Sub-metrics are
// normalized 0-100; raw totals are kept alongside.
type SkillBreakdown struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	StudentID    string      `json:"student_id" gorm:"not null;size:64;index"`
	AttemptID    uint        `json:"attempt_id" gorm:"not null;index"`
	AssessmentID uint        `json:"assessment_id" gorm:"not null;index"`
	SkillDomain  SkillDomain `json:"skill_domain" gorm:"not null;size:20;index" validate:"required,skill_domain"`

	// Normalized sub-metrics (0-100)
	ComprehensionAccuracy   float64 `json:"comprehension_accuracy"`
	ContextualUnderstanding float64 `json:"contextual_understanding"`

	// Pace and playback behaviour
	ResponseTimePerItem float64 `json:"response_time_per_item"` // seconds
	PlaybackDependency  float64 `json:"playback_dependency"`    // replays per item

	// Raw totals the sub-metrics were computed from
	RawScore      int `json:"raw_score"`
	PossibleScore int `json:"possible_score"`
	ItemCount     int `json:"item_count"`
	TotalReplays  int `json:"total_replays"`
	ElapsedTime   int `json:"elapsed_seconds"`

	CreatedAt time.Time `json:"created_at"`
}

func (SkillBreakdown) TableName() string {
	return "skill_breakdowns"
}
