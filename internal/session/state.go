package session

import (
	"errors"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

var (
	// ErrNotInProgress rejects a submit outside InProgress, which also covers
	// a second submit while the first is in flight.
	ErrNotInProgress = errors.New("quiz is not in progress")
	// ErrNoQuiz is returned when an operation needs a loaded quiz.
	ErrNoQuiz = errors.New("no quiz loaded")
)

// Phase is the session's position in its lifecycle.
type Phase int

const (
	NotStarted Phase = iota
	Loading
	InProgress
	Submitting
	Results
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case InProgress:
		return "in_progress"
	case Submitting:
		return "submitting"
	case Results:
		return "results"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots serialize the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Snapshot is a copy of the session state. Answers is owned by the caller;
// Quiz and Results are shared and never mutated after they are stored.
type Snapshot struct {
	Phase                Phase               `json:"phase"`
	Quiz                 *quiz.Quiz          `json:"quiz,omitempty"`
	Answers              quiz.AnswerMap      `json:"answers"`
	Results              *quiz.ScoringResult `json:"results,omitempty"`
	TimeLeft             int                 `json:"timeLeft"`
	TimerActive          bool                `json:"timerActive"`
	CurrentQuestionIndex int                 `json:"currentQuestionIndex"`
}

// QuizStarted is true from the start request until a retake.
func (s Snapshot) QuizStarted() bool {
	return s.Phase != NotStarted
}

// QuizSubmitted is true only once the scorer has answered. A failed
// submission leaves it false.
func (s Snapshot) QuizSubmitted() bool {
	return s.Phase == Results
}

// CurrentQuestion returns the question on screen, if any.
func (s Snapshot) CurrentQuestion() (quiz.Question, bool) {
	if s.Quiz == nil || s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Quiz.Questions) {
		return quiz.Question{}, false
	}
	return s.Quiz.Questions[s.CurrentQuestionIndex], true
}
