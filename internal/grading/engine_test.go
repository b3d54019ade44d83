package grading

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/LGEM-2025/scoring-service/internal/errors"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGradeQuestions(t *testing.T) {
	mcData, err := json.Marshal(models.MultipleChoiceData{
		Items: []models.MultipleChoiceItem{
			{ID: "q1", Options: []string{"A", "B", "C"}, CorrectAnswer: "B"},
		},
	})
	require.NoError(t, err)

	dictationData, err := json.Marshal(models.DictationData{
		Sentences: []models.DictationSentence{
			{ID: "sentence1", Gaps: []models.DictationGap{
				{ID: "gap1", CorrectText: "casa"},
				{ID: "gap2", CorrectText: "perro"},
			}},
		},
	})
	require.NoError(t, err)

	questions := []models.Question{
		{ID: 10, QuestionNumber: 1, Type: models.MultipleChoice, Marks: 1,
			Theme: "identity", Topic: "family", QuestionData: mcData},
		{ID: 11, QuestionNumber: 50, Type: models.Dictation, Marks: 2,
			Theme: "school", Topic: "classroom", QuestionData: dictationData},
	}

	sheet := AnswerSheet{
		Answers: map[uint]json.RawMessage{
			10: json.RawMessage(`{"q1":"B"}`),
			11: json.RawMessage(`{"sentence1_gap1":"casa","sentence1_gap2":"gato"}`),
		},
		TimeSpent: map[uint]int{10: 20, 11: 45},
	}

	responses, err := GradeQuestions(questions, sheet)
	require.NoError(t, err)
	require.Len(t, responses, 3)

	raw, possible := 0, 0
	for _, response := range responses {
		raw += response.PointsAwarded
		possible += response.MarksPossible
	}
	assert.Equal(t, 2, raw)
	assert.Equal(t, 3, possible)

	// metadata is stamped on every response row
	assert.Equal(t, uint(10), responses[0].QuestionID)
	assert.Equal(t, 1, responses[0].QuestionNumber)
	assert.Equal(t, models.MultipleChoice, responses[0].QuestionType)
	assert.Equal(t, "identity", responses[0].Theme)
	assert.Equal(t, "family", responses[0].Topic)
	assert.Equal(t, 20, responses[0].TimeSpentSeconds)

	assert.Equal(t, uint(11), responses[1].QuestionID)
	assert.Equal(t, "school", responses[1].Theme)
	// question time split evenly across sub-results
	assert.Equal(t, 22, responses[1].TimeSpentSeconds)
	assert.Equal(t, 22, responses[2].TimeSpentSeconds)
}

func TestGradeQuestions_UnansweredQuestionStillEmitted(t *testing.T) {
	mcData, err := json.Marshal(models.MultipleChoiceData{
		Items: []models.MultipleChoiceItem{
			{ID: "q1", CorrectAnswer: "A"},
		},
	})
	require.NoError(t, err)

	questions := []models.Question{
		{ID: 5, QuestionNumber: 3, Type: models.MultipleChoice, Marks: 1, QuestionData: mcData},
	}

	responses, err := GradeQuestions(questions, AnswerSheet{})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.False(t, responses[0].IsCorrect)
	assert.Equal(t, 0, responses[0].PointsAwarded)
	assert.Equal(t, 1, responses[0].MarksPossible)
	assert.Nil(t, responses[0].StudentAnswer)
}

func TestGradeQuestions_MultiPartDispatch(t *testing.T) {
	partData, err := json.Marshal(models.MultipleChoiceData{
		Items: []models.MultipleChoiceItem{
			{ID: "q1", CorrectAnswer: "A"},
		},
	})
	require.NoError(t, err)

	questionData, err := json.Marshal(models.MultiPartData{
		Parts: []models.MultiPartItem{
			{ID: "part1", Type: models.MultipleChoice, Data: partData},
		},
	})
	require.NoError(t, err)

	questions := []models.Question{
		{ID: 7, QuestionNumber: 4, Type: models.MultiPart, Marks: 1,
			Theme: "identity", Topic: "family", QuestionData: questionData},
	}
	sheet := AnswerSheet{
		Answers: map[uint]json.RawMessage{
			7: json.RawMessage(`{"part1":{"q1":"A"}}`),
		},
	}

	responses, err := GradeQuestions(questions, sheet)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].SubQuestionID)
	assert.Equal(t, "part1.q1", *responses[0].SubQuestionID)
	assert.True(t, responses[0].IsCorrect)
	assert.Equal(t, models.MultiPart, responses[0].QuestionType)
}

func TestGradeQuestions_UnknownTypeFailsValidation(t *testing.T) {
	questions := []models.Question{
		{ID: 1, QuestionNumber: 1, Type: models.QuestionType("essay"), QuestionData: datatypes.JSON(`{}`)},
	}

	_, err := GradeQuestions(questions, AnswerSheet{})
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
