package quiz

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultQuestionCount is the batch size requested from the backend.
const DefaultQuestionCount = 20

// Quiz is the payload returned by the quiz-data provider.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single prompt with its option list. Text may embed fenced code.
type Question struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Options          []Option `json:"options"`
	CorrectOptionIDs []string `json:"correctOptionIds"`
	Explanation      string   `json:"explanation,omitempty"`
}

// Option is one selectable answer, identified within its question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// IsMultiSelect reports whether more than one option is correct.
func (q Question) IsMultiSelect() bool {
	return len(q.CorrectOptionIDs) > 1
}

// IsCorrectOption reports whether optionID belongs to the answer key.
func (q Question) IsCorrectOption(optionID string) bool {
	return contains(q.CorrectOptionIDs, optionID)
}

// AnswerMap maps a question id to the option ids selected for it, in
// selection order.
type AnswerMap map[string][]string

// Clone returns a deep copy so callers can hand the map across goroutines.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for questionID, selected := range m {
		out[questionID] = append([]string(nil), selected...)
	}
	return out
}

// Has reports whether optionID is selected for questionID.
func (m AnswerMap) Has(questionID, optionID string) bool {
	return contains(m[questionID], optionID)
}

// ScoringResult is produced by the backend scorer.
type ScoringResult struct {
	Score             int              `json:"score"`
	TotalQuestions    int              `json:"totalQuestions"`
	PercentageCorrect Percentage       `json:"percentageCorrect"`
	Results           []QuestionResult `json:"results"`
}

// QuestionResult is the scorer's verdict for one answered question.
type QuestionResult struct {
	QuestionID       string   `json:"questionId"`
	IsCorrect        bool     `json:"isCorrect"`
	SubmittedAnswers []string `json:"submittedAnswers"`
	CorrectOptionIDs []string `json:"correctOptionIds,omitempty"`
}

// Lookup returns the result for questionID, if the scorer reported one.
func (r ScoringResult) Lookup(questionID string) (QuestionResult, bool) {
	for _, res := range r.Results {
		if res.QuestionID == questionID {
			return res, true
		}
	}
	return QuestionResult{}, false
}

// Percentage accepts both JSON numbers and numeric strings ("66.67").
type Percentage float64

func (p *Percentage) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSuffix(strings.TrimSpace(s), "%")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("percentage %s: %w", string(data), err)
	}
	*p = Percentage(v)
	return nil
}

// String formats the value with two decimals, as the scorer does.
func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
