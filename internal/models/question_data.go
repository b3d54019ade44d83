package models

import "encoding/json"

// Per-type question_data payload shapes. Question.QuestionData decodes
// into exactly one of these depending on Question.Type.

type LetterMatchingData struct {
	Items []LetterMatchingItem `json:"items"`
}

type LetterMatchingItem struct {
	ID            string `json:"id"` // e.g. a student name or weekday
	Prompt        string `json:"prompt"`
	CorrectAnswer string `json:"correct_answer"`
}

type MultipleChoiceData struct {
	Items []MultipleChoiceItem `json:"items"`
}

type MultipleChoiceItem struct {
	ID            string   `json:"id"` // e.g. "q1"
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type MultipleResponseData struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
}

type LifestyleGridData struct {
	Speakers []LifestyleGridSpeaker `json:"speakers"`
}

type LifestyleGridSpeaker struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	CorrectGood             string `json:"correct_good"`
	CorrectNeedsImprovement string `json:"correct_needs_improvement"`
}

type WordCloudData struct {
	Words []string       `json:"words"`
	Gaps  []WordCloudGap `json:"gaps"`
}

type WordCloudGap struct {
	ID            string `json:"id"`
	Sentence      string `json:"sentence"`
	CorrectAnswer string `json:"correct_answer"`
}

type OpenResponseData struct {
	Items []OpenResponseItem `json:"items"`
}

type OpenResponseItem struct {
	ID           string `json:"id"`
	Prompt       string `json:"prompt"`
	SampleAnswer string `json:"sample_answer"`
	Marks        int    `json:"marks"`
}

type MultiPartData struct {
	Parts []MultiPartItem `json:"parts"`
}

// MultiPartItem embeds a nested question of the declared sub-type. Data
// holds that sub-type's payload and is graded by the sub-type's rule.
type MultiPartItem struct {
	ID    string          `json:"id"` // e.g. "part1"
	Type  QuestionType    `json:"type"`
	Marks int             `json:"marks"` // for sub-types that grade as a single unit
	Data  json.RawMessage `json:"data"`
}

type DictationData struct {
	Sentences []DictationSentence `json:"sentences"`
}

type DictationSentence struct {
	ID   string         `json:"id"` // e.g. "sentence1"
	Gaps []DictationGap `json:"gaps"`
}

type DictationGap struct {
	ID          string `json:"id"` // e.g. "gap1"
	CorrectText string `json:"correct_text"`
}

type ActivityTimingData struct {
	Items []ActivityTimingItem `json:"items"`
}

// Each item decomposes into two independently graded sub-answers
// (activity and time), one mark each.
type ActivityTimingItem struct {
	ID              string `json:"id"`
	CorrectActivity string `json:"correct_activity"`
	CorrectTime     string `json:"correct_time"`
}

type OpinionRatingData struct {
	Aspects []OpinionRatingAspect `json:"aspects"`
}

type OpinionRatingAspect struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	CorrectRating int    `json:"correct_rating"`
	Tolerance     int    `json:"tolerance"` // accepted absolute deviation
}

// ===== STUDENT ANSWER PAYLOADS =====

// Answer shapes submitted by the client, keyed per question. The raw
// JSON varies by type:
//   - letter-matching / multiple-choice / lifestyle-grid / word-cloud /
//     open-response / multi-part / activity-timing: map[subID]string
//     (activity-timing sub IDs are "<item>_activity" and "<item>_time")
//   - multiple-response: []string of selected options
//   - dictation: map["<sentence>_<gap>"]string
//   - opinion-rating: map[aspectID]int
type KeyedAnswers map[string]string

type RatingAnswers map[string]int

type SelectedOptions []string
