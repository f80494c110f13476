// Package render builds display structures from session state. Nothing here
// holds state; the terminal front end draws what these functions return.
package render

import (
	"strings"

	"github.com/gokatarajesh/quiz-desk/internal/markup"
	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// SelectEvent is emitted when the user activates an option.
type SelectEvent struct {
	QuestionID       string
	OptionID         string
	IsMultipleChoice bool
}

// OptionRow is one selectable option as displayed.
type OptionRow struct {
	ID       string
	Label    string
	Text     string
	Selected bool
}

// Mark returns the checkmark for selected rows.
func (r OptionRow) Mark() string {
	if r.Selected {
		return Checkmark
	}
	return ""
}

// QuestionCard is the display structure for one question.
type QuestionCard struct {
	QuestionID  string
	Header      string
	Blocks      []markup.Segment
	MultiSelect bool
	Hint        string
	Options     []OptionRow
}

// BuildQuestionCard projects a question and the current answers.
func BuildQuestionCard(q quiz.Question, index, total int, answers quiz.AnswerMap) QuestionCard {
	doc := markup.Parse(q.Text)
	multi := q.IsMultiSelect()

	card := QuestionCard{
		QuestionID:  q.ID,
		Header:      questionHeader(index, total, doc.Title),
		Blocks:      doc.Segments,
		MultiSelect: multi,
		Options:     make([]OptionRow, len(q.Options)),
	}
	if multi {
		card.Hint = MultiHint
	}

	selected := answers[q.ID]
	for i, opt := range q.Options {
		card.Options[i] = OptionRow{
			ID:       opt.ID,
			Label:    strings.ToUpper(opt.ID),
			Text:     opt.Text,
			Selected: isSelected(selected, opt.ID, multi),
		}
	}
	return card
}

// Activate turns a click on option i into a selection event.
func (c QuestionCard) Activate(i int) (SelectEvent, bool) {
	if i < 0 || i >= len(c.Options) {
		return SelectEvent{}, false
	}
	return SelectEvent{
		QuestionID:       c.QuestionID,
		OptionID:         c.Options[i].ID,
		IsMultipleChoice: c.MultiSelect,
	}, true
}

func isSelected(selected []string, optionID string, multi bool) bool {
	if multi {
		for _, id := range selected {
			if id == optionID {
				return true
			}
		}
		return false
	}
	return len(selected) > 0 && selected[0] == optionID
}
