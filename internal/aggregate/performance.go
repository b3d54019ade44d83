package aggregate

import (
	"math"

	"github.com/LGEM-2025/scoring-service/internal/models"
)

// GroupStat is one roll-up bucket (a theme, topic or question type).
type GroupStat struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Points     int     `json:"points"`
	Possible   int     `json:"possible"`
	Percentage float64 `json:"percentage"`
}

// SectionScores splits the attempt at the tier-dependent question-number
// boundary: comprehension below it, dictation at or above it.
type SectionScores struct {
	ComprehensionScore    int `json:"comprehension_score"`
	ComprehensionPossible int `json:"comprehension_possible"`
	DictationScore        int `json:"dictation_score"`
	DictationPossible     int `json:"dictation_possible"`
}

// PerformanceBreakdown is the nested roll-up produced at submission and
// snapshotted onto the attempt.
type PerformanceBreakdown struct {
	RawScore      int     `json:"raw_score"`
	TotalPossible int     `json:"total_possible"`
	Percentage    float64 `json:"percentage"`

	Sections SectionScores `json:"sections"`

	ByTheme        map[string]GroupStat `json:"by_theme"`
	ByTopic        map[string]GroupStat `json:"by_topic"`
	ByQuestionType map[string]GroupStat `json:"by_question_type"`
}

// Performance rolls one attempt's graded responses up into totals,
// section splits and per-theme/topic/type breakdowns. Pure function:
// the same response set always yields identical output.
func Performance(responses []models.QuestionResponse, sectionBoundary int) PerformanceBreakdown {
	breakdown := PerformanceBreakdown{
		ByTheme:        make(map[string]GroupStat),
		ByTopic:        make(map[string]GroupStat),
		ByQuestionType: make(map[string]GroupStat),
	}

	for _, response := range responses {
		breakdown.RawScore += response.PointsAwarded
		breakdown.TotalPossible += response.MarksPossible

		if response.QuestionNumber < sectionBoundary {
			breakdown.Sections.ComprehensionScore += response.PointsAwarded
			breakdown.Sections.ComprehensionPossible += response.MarksPossible
		} else {
			breakdown.Sections.DictationScore += response.PointsAwarded
			breakdown.Sections.DictationPossible += response.MarksPossible
		}

		accumulate(breakdown.ByTheme, response.Theme, response)
		accumulate(breakdown.ByTopic, response.Topic, response)
		accumulate(breakdown.ByQuestionType, string(response.QuestionType), response)
	}

	breakdown.Percentage = Percentage(breakdown.RawScore, breakdown.TotalPossible)

	finalize(breakdown.ByTheme)
	finalize(breakdown.ByTopic)
	finalize(breakdown.ByQuestionType)

	return breakdown
}

// Percentage computes awarded/possible*100 rounded to two decimals,
// returning 0 when possible is 0.
func Percentage(awarded, possible int) float64 {
	if possible == 0 {
		return 0
	}
	return math.Round(float64(awarded)/float64(possible)*10000) / 100
}

func accumulate(groups map[string]GroupStat, key string, response models.QuestionResponse) {
	stat := groups[key]
	stat.Total++
	stat.Points += response.PointsAwarded
	stat.Possible += response.MarksPossible
	if response.IsCorrect {
		stat.Correct++
	}
	groups[key] = stat
}

func finalize(groups map[string]GroupStat) {
	for key, stat := range groups {
		if stat.Total > 0 {
			stat.Percentage = math.Round(float64(stat.Correct)/float64(stat.Total)*10000) / 100
		}
		groups[key] = stat
	}
}
