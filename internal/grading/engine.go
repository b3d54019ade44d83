package grading

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/LGEM-2025/scoring-service/internal/errors"
	"github.com/LGEM-2025/scoring-service/internal/models"
)

// AnswerSheet holds the raw answers for one attempt, keyed by question
// ID. Questions absent from the map were not attempted.
type AnswerSheet struct {
	Answers   map[uint]json.RawMessage
	TimeSpent map[uint]int // seconds per question
}

// GradeQuestions produces the full graded response set for an attempt.
// Every question yields at least one response; unanswered questions are
// scored incorrect with zero points, never skipped.
func GradeQuestions(questions []models.Question, sheet AnswerSheet) ([]models.QuestionResponse, error) {
	var responses []models.QuestionResponse

	for i := range questions {
		question := &questions[i]

		grader, ok := Resolve(question.Type)
		if !ok {
			return nil, apperrors.NewValidationError("question_type",
				fmt.Sprintf("no grader registered for type %q", question.Type), nil)
		}

		results, err := grader(question, sheet.Answers[question.ID])
		if err != nil {
			return nil, err
		}

		timePerResult := 0
		if total := sheet.TimeSpent[question.ID]; total > 0 && len(results) > 0 {
			timePerResult = total / len(results)
		}

		for _, result := range results {
			responses = append(responses, models.QuestionResponse{
				QuestionID:       question.ID,
				QuestionNumber:   question.QuestionNumber,
				SubQuestionID:    result.SubQuestionID,
				QuestionType:     question.Type,
				StudentAnswer:    result.StudentAnswer,
				IsCorrect:        result.IsCorrect,
				PointsAwarded:    result.PointsAwarded,
				MarksPossible:    result.MarksPossible,
				TimeSpentSeconds: timePerResult,
				Theme:            question.Theme,
				Topic:            question.Topic,
			})
		}
	}

	return responses, nil
}
