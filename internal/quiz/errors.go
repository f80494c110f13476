package quiz

import (
	"errors"
	"fmt"
)

// ErrMalformedQuiz marks quiz payloads that break the structural invariants.
var ErrMalformedQuiz = errors.New("malformed quiz")

// Validate checks the invariants the renderers rely on: at least one
// question, unique ids, and a non-empty answer key drawn from the options.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrMalformedQuiz)
	}

	seenQuestions := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrMalformedQuiz, i)
		}
		if _, dup := seenQuestions[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrMalformedQuiz, question.ID)
		}
		seenQuestions[question.ID] = struct{}{}

		if len(question.Options) == 0 {
			return fmt.Errorf("%w: question %q has no options", ErrMalformedQuiz, question.ID)
		}
		options := make(map[string]struct{}, len(question.Options))
		for _, opt := range question.Options {
			if _, dup := options[opt.ID]; dup {
				return fmt.Errorf("%w: question %q repeats option %q", ErrMalformedQuiz, question.ID, opt.ID)
			}
			options[opt.ID] = struct{}{}
		}

		if len(question.CorrectOptionIDs) == 0 {
			return fmt.Errorf("%w: question %q has no correct option", ErrMalformedQuiz, question.ID)
		}
		for _, id := range question.CorrectOptionIDs {
			if _, ok := options[id]; !ok {
				return fmt.Errorf("%w: question %q marks unknown option %q as correct", ErrMalformedQuiz, question.ID, id)
			}
		}
	}
	return nil
}
