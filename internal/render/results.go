package render

import (
	"fmt"
	"strings"

	"github.com/gokatarajesh/quiz-desk/internal/markup"
	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// OptionStatus classifies an option against the answer key and the submission.
type OptionStatus int

const (
	Neutral OptionStatus = iota
	CorrectSubmitted
	CorrectMissed
	WrongSubmitted
)

// Classify places an option in exactly one of the four states.
func Classify(correct, submitted bool) OptionStatus {
	switch {
	case correct && submitted:
		return CorrectSubmitted
	case correct:
		return CorrectMissed
	case submitted:
		return WrongSubmitted
	default:
		return Neutral
	}
}

// Note is the annotation appended to the option text.
func (s OptionStatus) Note() string {
	switch s {
	case CorrectSubmitted:
		return noteCorrectSubmitted
	case CorrectMissed:
		return noteCorrectMissed
	case WrongSubmitted:
		return noteWrongSubmitted
	default:
		return ""
	}
}

// OptionOutcome is one option in the breakdown.
type OptionOutcome struct {
	ID     string
	Text   string
	Status OptionStatus
}

// Line is the option text with its annotation.
func (o OptionOutcome) Line() string {
	return o.Text + o.Status.Note()
}

// QuestionOutcome is the breakdown for one question.
type QuestionOutcome struct {
	QuestionID     string
	Title          string
	Blocks         []markup.Segment
	Correct        bool
	Marker         string
	Options        []OptionOutcome
	CorrectAnswers string // empty when answered correctly
}

// ResultsReport is the results screen.
type ResultsReport struct {
	Heading     string
	ScoreLine   string
	PercentLine string
	Details     string
	Questions   []QuestionOutcome
	Retake      string
}

// BuildResultsReport projects the quiz and the scorer's verdict. Questions
// the scorer did not mention count as wrong with nothing submitted.
func BuildResultsReport(q quiz.Quiz, res quiz.ScoringResult) ResultsReport {
	report := ResultsReport{
		Heading:     "Kết quả bài kiểm tra: " + q.Title,
		ScoreLine:   fmt.Sprintf("Điểm số của bạn: %d / %d", res.Score, res.TotalQuestions),
		PercentLine: fmt.Sprintf("Tỷ lệ đúng: %s%%", res.PercentageCorrect),
		Details:     DetailsHeading,
		Questions:   make([]QuestionOutcome, 0, len(q.Questions)),
		Retake:      RetakeLabel,
	}

	for _, question := range q.Questions {
		report.Questions = append(report.Questions, buildOutcome(question, res))
	}
	return report
}

func buildOutcome(question quiz.Question, res quiz.ScoringResult) QuestionOutcome {
	verdict, _ := res.Lookup(question.ID)
	doc := markup.Parse(question.Text)

	out := QuestionOutcome{
		QuestionID: question.ID,
		Title:      doc.Title,
		Blocks:     doc.Segments,
		Correct:    verdict.IsCorrect,
		Marker:     WrongMarker,
		Options:    make([]OptionOutcome, len(question.Options)),
	}
	if out.Correct {
		out.Marker = CorrectMarker
	}

	submitted := quiz.AnswerMap{question.ID: verdict.SubmittedAnswers}
	var correctTexts []string
	for i, opt := range question.Options {
		correct := question.IsCorrectOption(opt.ID)
		out.Options[i] = OptionOutcome{
			ID:     opt.ID,
			Text:   opt.Text,
			Status: Classify(correct, submitted.Has(question.ID, opt.ID)),
		}
		if correct {
			correctTexts = append(correctTexts, opt.Text)
		}
	}

	if !out.Correct {
		out.CorrectAnswers = "Đáp án đúng là: " + strings.Join(correctTexts, ", ")
	}
	return out
}
