package utils

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/LGEM-2025/scoring-service/internal/errors"
	"github.com/LGEM-2025/scoring-service/internal/models"
)

// ValidateQuestionData checks that a question's JSONB payload is
// structurally sound for its declared type, and that the question's
// marks equal the sum of its sub-part marks for decomposable types.
func ValidateQuestionData(question *models.Question) error {
	subMarks, err := payloadMarks(question.Type, json.RawMessage(question.QuestionData), question.Marks)
	if err != nil {
		return err
	}

	if subMarks != question.Marks {
		return apperrors.NewValidationError("marks",
			fmt.Sprintf("question %d declares %d marks but its sub-parts total %d",
				question.QuestionNumber, question.Marks, subMarks), question.Marks)
	}
	return nil
}

// payloadMarks decodes the payload for the given type and returns the
// total marks its sub-parts carry. declaredMarks is used for types that
// grade as a single unit.
func payloadMarks(questionType models.QuestionType, payload json.RawMessage, declaredMarks int) (int, error) {
	switch questionType {
	case models.LetterMatching:
		var data models.LetterMatchingData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Items) == 0 {
			return 0, emptyPayload(questionType)
		}
		return len(data.Items), nil

	case models.MultipleChoice:
		var data models.MultipleChoiceData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Items) == 0 {
			return 0, emptyPayload(questionType)
		}
		return len(data.Items), nil

	case models.MultipleResponse:
		var data models.MultipleResponseData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Options) == 0 || len(data.CorrectAnswers) == 0 {
			return 0, emptyPayload(questionType)
		}
		return declaredMarks, nil

	case models.LifestyleGrid:
		var data models.LifestyleGridData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Speakers) == 0 {
			return 0, emptyPayload(questionType)
		}
		return len(data.Speakers) * 2, nil

	case models.WordCloud:
		var data models.WordCloudData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Gaps) == 0 {
			return 0, emptyPayload(questionType)
		}
		return len(data.Gaps), nil

	case models.OpenResponseA, models.OpenResponseB, models.OpenResponseC:
		var data models.OpenResponseData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Items) == 0 {
			return 0, emptyPayload(questionType)
		}
		total := 0
		for _, item := range data.Items {
			if item.Marks > 0 {
				total += item.Marks
			} else {
				total++
			}
		}
		return total, nil

	case models.MultiPart:
		var data models.MultiPartData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Parts) == 0 {
			return 0, emptyPayload(questionType)
		}
		total := 0
		for _, part := range data.Parts {
			if part.Type == models.MultiPart {
				return 0, apperrors.NewValidationError("question_data",
					"multi-part questions cannot nest further multi-part parts", nil)
			}
			partMarks, err := payloadMarks(part.Type, part.Data, part.Marks)
			if err != nil {
				return 0, err
			}
			total += partMarks
		}
		return total, nil

	case models.Dictation:
		var data models.DictationData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		gaps := 0
		for _, sentence := range data.Sentences {
			gaps += len(sentence.Gaps)
		}
		if gaps == 0 {
			return 0, emptyPayload(questionType)
		}
		return gaps, nil

	case models.ActivityTiming:
		var data models.ActivityTimingData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Items) == 0 {
			return 0, emptyPayload(questionType)
		}
		return len(data.Items) * 2, nil

	case models.OpinionRating:
		var data models.OpinionRatingData
		if err := decode(payload, &data, questionType); err != nil {
			return 0, err
		}
		if len(data.Aspects) == 0 {
			return 0, emptyPayload(questionType)
		}
		for _, aspect := range data.Aspects {
			if aspect.Tolerance < 0 {
				return 0, apperrors.NewValidationError("question_data",
					fmt.Sprintf("negative tolerance on aspect %q", aspect.ID), aspect.Tolerance)
			}
		}
		return len(data.Aspects), nil

	default:
		return 0, apperrors.NewValidationError("question_type",
			fmt.Sprintf("unknown question type %q", questionType), string(questionType))
	}
}

func decode(payload json.RawMessage, dest interface{}, questionType models.QuestionType) error {
	if err := json.Unmarshal(payload, dest); err != nil {
		return apperrors.NewValidationError("question_data",
			fmt.Sprintf("malformed %s payload", questionType), nil)
	}
	return nil
}

func emptyPayload(questionType models.QuestionType) error {
	return apperrors.NewValidationError("question_data",
		fmt.Sprintf("%s payload has no gradable sub-parts", questionType), nil)
}
