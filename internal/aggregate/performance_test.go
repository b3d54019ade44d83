package aggregate

import (
	"reflect"
	"testing"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponses() []models.QuestionResponse {
	return []models.QuestionResponse{
		{QuestionNumber: 1, QuestionType: models.MultipleChoice, Theme: "identity", Topic: "family",
			IsCorrect: true, PointsAwarded: 1, MarksPossible: 1},
		{QuestionNumber: 2, QuestionType: models.MultipleResponse, Theme: "identity", Topic: "friends",
			IsCorrect: false, PointsAwarded: 0, MarksPossible: 2},
		{QuestionNumber: 11, QuestionType: models.WordCloud, Theme: "school", Topic: "classroom",
			IsCorrect: true, PointsAwarded: 1, MarksPossible: 1},
		{QuestionNumber: 12, QuestionType: models.Dictation, Theme: "school", Topic: "classroom",
			IsCorrect: true, PointsAwarded: 1, MarksPossible: 1},
		{QuestionNumber: 13, QuestionType: models.Dictation, Theme: "school", Topic: "classroom",
			IsCorrect: false, PointsAwarded: 0, MarksPossible: 1},
	}
}

func TestPerformance(t *testing.T) {
	breakdown := Performance(sampleResponses(), 12)

	assert.Equal(t, 3, breakdown.RawScore)
	assert.Equal(t, 6, breakdown.TotalPossible)
	assert.Equal(t, 50.0, breakdown.Percentage)

	// questions below the boundary are comprehension, the rest dictation
	assert.Equal(t, 2, breakdown.Sections.ComprehensionScore)
	assert.Equal(t, 4, breakdown.Sections.ComprehensionPossible)
	assert.Equal(t, 1, breakdown.Sections.DictationScore)
	assert.Equal(t, 2, breakdown.Sections.DictationPossible)

	identity := breakdown.ByTheme["identity"]
	assert.Equal(t, 1, identity.Correct)
	assert.Equal(t, 2, identity.Total)
	assert.Equal(t, 50.0, identity.Percentage)

	classroom := breakdown.ByTopic["classroom"]
	assert.Equal(t, 2, classroom.Correct)
	assert.Equal(t, 3, classroom.Total)
	assert.Equal(t, 66.67, classroom.Percentage)

	dictation := breakdown.ByQuestionType[string(models.Dictation)]
	assert.Equal(t, 1, dictation.Correct)
	assert.Equal(t, 2, dictation.Total)
}

func TestPerformance_GroupSumsMatchTotals(t *testing.T) {
	breakdown := Performance(sampleResponses(), 12)

	for name, groups := range map[string]map[string]GroupStat{
		"theme": breakdown.ByTheme,
		"topic": breakdown.ByTopic,
		"type":  breakdown.ByQuestionType,
	} {
		points, possible := 0, 0
		for _, stat := range groups {
			points += stat.Points
			possible += stat.Possible
		}
		assert.Equal(t, breakdown.RawScore, points, "points by %s", name)
		assert.Equal(t, breakdown.TotalPossible, possible, "possible by %s", name)
	}

	sectionScore := breakdown.Sections.ComprehensionScore + breakdown.Sections.DictationScore
	sectionPossible := breakdown.Sections.ComprehensionPossible + breakdown.Sections.DictationPossible
	assert.Equal(t, breakdown.RawScore, sectionScore)
	assert.Equal(t, breakdown.TotalPossible, sectionPossible)
}

func TestPerformance_Idempotent(t *testing.T) {
	first := Performance(sampleResponses(), 12)
	second := Performance(sampleResponses(), 12)

	require.True(t, reflect.DeepEqual(first, second))
}

func TestPerformance_EmptyResponses(t *testing.T) {
	breakdown := Performance(nil, 12)

	assert.Equal(t, 0, breakdown.RawScore)
	assert.Equal(t, 0, breakdown.TotalPossible)
	assert.Equal(t, 0.0, breakdown.Percentage)
	assert.Empty(t, breakdown.ByTheme)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 100.0, Percentage(5, 5))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 33.33, Percentage(1, 3))
}
