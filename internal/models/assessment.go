package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tier string

const (
	TierFoundation Tier = "foundation"
	TierHigher     Tier = "higher"
)

type SkillDomain string

const (
	SkillListening SkillDomain = "listening"
	SkillReading   SkillDomain = "reading"
	SkillWriting   SkillDomain = "writing"
	SkillSpeaking  SkillDomain = "speaking"
)

type QuestionType string

const (
	LetterMatching   QuestionType = "letter-matching"
	MultipleChoice   QuestionType = "multiple-choice"
	MultipleResponse QuestionType = "multiple-response"
	LifestyleGrid    QuestionType = "lifestyle-grid"
	WordCloud        QuestionType = "word-cloud"
	OpenResponseA    QuestionType = "open-response-a"
	OpenResponseB    QuestionType = "open-response-b"
	OpenResponseC    QuestionType = "open-response-c"
	MultiPart        QuestionType = "multi-part"
	Dictation        QuestionType = "dictation"
	ActivityTiming   QuestionType = "activity-timing"
	OpinionRating    QuestionType = "opinion-rating"
)

// IsOpenResponse reports whether the type is one of the free-text
// open-response variants, which are recorded but never auto-credited.
func (t QuestionType) IsOpenResponse() bool {
	return t == OpenResponseA || t == OpenResponseB || t == OpenResponseC
}

// AssessmentDefinition is immutable exam metadata. Authored by the admin
// tooling; this service only reads it.
type AssessmentDefinition struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	Language   string      `json:"language" gorm:"not null;size:10;uniqueIndex:uidx_assessment_key" validate:"required,min=2,max=10"`
	Tier       Tier        `json:"tier" gorm:"not null;size:20;uniqueIndex:uidx_assessment_key" validate:"required,assessment_tier"`
	Identifier string      `json:"identifier" gorm:"not null;size:50;uniqueIndex:uidx_assessment_key" validate:"required,min=1,max=50"`
	Title      string      `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Modality   SkillDomain `json:"modality" gorm:"not null;size:20" validate:"required,skill_domain"`

	TimeLimitSeconds int  `json:"time_limit_seconds" gorm:"not null" validate:"required,min=60,max=10800"`
	TotalQuestions   int  `json:"total_questions" gorm:"not null" validate:"required,min=1"`
	IsActive         bool `json:"is_active" gorm:"default:true;index"`

	// Question number at which the dictation section starts. Zero means
	// fall back to the tier default from configuration.
	SectionBoundary int `json:"section_boundary"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID"`
}

func (AssessmentDefinition) TableName() string {
	return "assessment_definitions"
}

// Question is one item within an assessment. QuestionData is a
// type-specific JSONB payload; see question_data.go for the per-type
// shapes.
type Question struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	AssessmentID   uint         `json:"assessment_id" gorm:"not null;index"`
	QuestionNumber int          `json:"question_number" gorm:"not null" validate:"required,min=1"`
	Type           QuestionType `json:"question_type" gorm:"not null;size:30;index" validate:"required,question_type"`
	Title          string       `json:"title" gorm:"size:300"`

	QuestionData datatypes.JSON `json:"question_data" gorm:"type:jsonb;not null"`

	Marks int    `json:"marks" gorm:"not null" validate:"required,min=1"`
	Theme string `json:"theme" gorm:"not null;size:100;index" validate:"required"`
	Topic string `json:"topic" gorm:"not null;size:100;index" validate:"required"`

	AudioURL *string `json:"audio_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "assessment_questions"
}
