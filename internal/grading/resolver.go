package grading

import (
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "github.com/LGEM-2025/scoring-service/internal/errors"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"gorm.io/datatypes"
)

// SubResult is one graded sub-answer. The engine stamps question
// metadata (number, type, theme, topic) on top of it.
type SubResult struct {
	SubQuestionID *string
	StudentAnswer *string
	IsCorrect     bool
	PointsAwarded int
	MarksPossible int
}

// Grader resolves a raw student answer for one question against its
// answer key. A nil answer means the question was not attempted; the
// grader must still emit every sub-result as incorrect with zero points.
type Grader func(question *models.Question, answer json.RawMessage) ([]SubResult, error)

var graders map[models.QuestionType]Grader

// The table is filled in init because gradeMultiPart dispatches back
// through it for its sub-types.
func init() {
	graders = map[models.QuestionType]Grader{
		models.LetterMatching:   gradeLetterMatching,
		models.MultipleChoice:   gradeMultipleChoice,
		models.MultipleResponse: gradeMultipleResponse,
		models.LifestyleGrid:    gradeLifestyleGrid,
		models.WordCloud:        gradeWordCloud,
		models.OpenResponseA:    gradeOpenResponse,
		models.OpenResponseB:    gradeOpenResponse,
		models.OpenResponseC:    gradeOpenResponse,
		models.MultiPart:        gradeMultiPart,
		models.Dictation:        gradeDictation,
		models.ActivityTiming:   gradeActivityTiming,
		models.OpinionRating:    gradeOpinionRating,
	}
}

// Resolve returns the grader registered for the question type. Adding a
// new type means registering one function above; dispatch never changes.
func Resolve(questionType models.QuestionType) (Grader, bool) {
	grader, ok := graders[questionType]
	return grader, ok
}

// ===== DECODE HELPERS =====

func decodePayload(question *models.Question, dest interface{}) error {
	if err := json.Unmarshal(question.QuestionData, dest); err != nil {
		return apperrors.NewValidationError("question_data",
			fmt.Sprintf("malformed %s payload for question %d", question.Type, question.QuestionNumber), nil)
	}
	return nil
}

func decodeKeyedAnswers(answer json.RawMessage) (models.KeyedAnswers, error) {
	if answer == nil {
		return nil, nil
	}
	var answers models.KeyedAnswers
	if err := json.Unmarshal(answer, &answers); err != nil {
		return nil, apperrors.NewValidationError("answer", "expected a map of sub-question id to answer", nil)
	}
	return answers, nil
}

func subResult(subID string, studentAnswer string, answered, correct bool, marks int) SubResult {
	result := SubResult{
		SubQuestionID: &subID,
		MarksPossible: marks,
	}
	if answered {
		result.StudentAnswer = strPtr(studentAnswer)
	}
	if correct {
		result.IsCorrect = true
		result.PointsAwarded = marks
	}
	return result
}

func strPtr(s string) *string {
	return &s
}

// ===== PER-TYPE GRADERS =====

func gradeLetterMatching(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.LetterMatchingData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Items))
	for _, item := range data.Items {
		student, answered := answers[item.ID]
		correct := answered && answersMatch(student, item.CorrectAnswer)
		results = append(results, subResult(item.ID, student, answered, correct, 1))
	}
	return results, nil
}

func gradeMultipleChoice(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.MultipleChoiceData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Items))
	for _, item := range data.Items {
		student, answered := answers[item.ID]
		correct := answered && answersMatch(student, item.CorrectAnswer)
		results = append(results, subResult(item.ID, student, answered, correct, 1))
	}
	return results, nil
}

func gradeMultipleResponse(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.MultipleResponseData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}

	var selected models.SelectedOptions
	if answer != nil {
		if err := json.Unmarshal(answer, &selected); err != nil {
			return nil, apperrors.NewValidationError("answer", "expected a list of selected options", nil)
		}
	}

	marks := question.Marks
	result := SubResult{MarksPossible: marks}
	if len(selected) > 0 {
		joined, _ := json.Marshal(selected)
		result.StudentAnswer = strPtr(string(joined))
	}
	if setsMatch(selected, data.CorrectAnswers) {
		result.IsCorrect = true
		result.PointsAwarded = marks
	}
	return []SubResult{result}, nil
}

func gradeLifestyleGrid(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.LifestyleGridData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Speakers)*2)
	for _, speaker := range data.Speakers {
		goodID := speaker.ID + "_good"
		student, answered := answers[goodID]
		correct := answered && answersMatch(student, speaker.CorrectGood)
		results = append(results, subResult(goodID, student, answered, correct, 1))

		needsID := speaker.ID + "_needs"
		student, answered = answers[needsID]
		correct = answered && answersMatch(student, speaker.CorrectNeedsImprovement)
		results = append(results, subResult(needsID, student, answered, correct, 1))
	}
	return results, nil
}

func gradeWordCloud(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.WordCloudData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Gaps))
	for _, gap := range data.Gaps {
		student, answered := answers[gap.ID]
		correct := answered && answersMatch(student, gap.CorrectAnswer)
		results = append(results, subResult(gap.ID, student, answered, correct, 1))
	}
	return results, nil
}

// gradeOpenResponse records the raw answer but always marks it incorrect
// with zero points. Free-text answers wait for manual review; crediting
// them automatically would require guessing intent.
func gradeOpenResponse(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.OpenResponseData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Items))
	for _, item := range data.Items {
		marks := item.Marks
		if marks <= 0 {
			marks = 1
		}
		student, answered := answers[item.ID]
		results = append(results, subResult(item.ID, student, answered, false, marks))
	}
	return results, nil
}

func gradeMultiPart(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.MultiPartData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}

	var partAnswers map[string]json.RawMessage
	if answer != nil {
		if err := json.Unmarshal(answer, &partAnswers); err != nil {
			return nil, apperrors.NewValidationError("answer", "expected a map of part id to answer", nil)
		}
	}

	var results []SubResult
	for _, part := range data.Parts {
		grader, ok := Resolve(part.Type)
		if !ok || part.Type == models.MultiPart {
			return nil, apperrors.NewValidationError("question_data",
				fmt.Sprintf("unsupported multi-part sub-type %q in question %d", part.Type, question.QuestionNumber), nil)
		}

		nested := *question
		nested.Type = part.Type
		nested.QuestionData = datatypes.JSON(part.Data)
		if part.Marks > 0 {
			nested.Marks = part.Marks
		}

		partResults, err := grader(&nested, partAnswers[part.ID])
		if err != nil {
			return nil, err
		}
		for _, r := range partResults {
			if r.SubQuestionID != nil {
				r.SubQuestionID = strPtr(part.ID + "." + *r.SubQuestionID)
			} else {
				r.SubQuestionID = strPtr(part.ID)
			}
			results = append(results, r)
		}
	}
	return results, nil
}

func gradeDictation(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.DictationData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	var results []SubResult
	for _, sentence := range data.Sentences {
		for _, gap := range sentence.Gaps {
			gapID := sentence.ID + "_" + gap.ID
			student, answered := answers[gapID]
			correct := answered && answersMatch(student, gap.CorrectText)
			results = append(results, subResult(gapID, student, answered, correct, 1))
		}
	}
	return results, nil
}

func gradeActivityTiming(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.ActivityTimingData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}
	answers, err := decodeKeyedAnswers(answer)
	if err != nil {
		return nil, err
	}

	results := make([]SubResult, 0, len(data.Items)*2)
	for _, item := range data.Items {
		activityID := item.ID + "_activity"
		student, answered := answers[activityID]
		correct := answered && answersMatch(student, item.CorrectActivity)
		results = append(results, subResult(activityID, student, answered, correct, 1))

		timeID := item.ID + "_time"
		student, answered = answers[timeID]
		correct = answered && answersMatch(student, item.CorrectTime)
		results = append(results, subResult(timeID, student, answered, correct, 1))
	}
	return results, nil
}

func gradeOpinionRating(question *models.Question, answer json.RawMessage) ([]SubResult, error) {
	var data models.OpinionRatingData
	if err := decodePayload(question, &data); err != nil {
		return nil, err
	}

	var ratings models.RatingAnswers
	if answer != nil {
		if err := json.Unmarshal(answer, &ratings); err != nil {
			return nil, apperrors.NewValidationError("answer", "expected a map of aspect id to rating", nil)
		}
	}

	results := make([]SubResult, 0, len(data.Aspects))
	for _, aspect := range data.Aspects {
		rating, answered := ratings[aspect.ID]
		correct := false
		if answered {
			diff := rating - aspect.CorrectRating
			if diff < 0 {
				diff = -diff
			}
			correct = diff <= aspect.Tolerance
		}
		results = append(results, subResult(aspect.ID, strconv.Itoa(rating), answered, correct, 1))
	}
	return results, nil
}
