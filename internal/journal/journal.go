// Package journal keeps a best-effort record of finished attempts. Only the
// score summary is stored; session state never leaves the process.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// ErrUnknownDriver is returned for journal drivers this build does not ship.
var ErrUnknownDriver = errors.New("unknown journal driver")

const (
	DriverNone     = "none"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Attempt summarizes one scored quiz.
type Attempt struct {
	ID             uuid.UUID `json:"id"`
	QuizTitle      string    `json:"quizTitle"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentageCorrect"`
	Answered       int       `json:"answered"`
	AutoSubmitted  bool      `json:"autoSubmitted"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// NewAttempt builds the summary for a scored submission.
func NewAttempt(q quiz.Quiz, answers quiz.AnswerMap, res quiz.ScoringResult, startedAt, finishedAt time.Time, auto bool) Attempt {
	answered := 0
	for _, selected := range answers {
		if len(selected) > 0 {
			answered++
		}
	}
	return Attempt{
		ID:             uuid.New(),
		QuizTitle:      q.Title,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		Percentage:     float64(res.PercentageCorrect),
		Answered:       answered,
		AutoSubmitted:  auto,
		StartedAt:      startedAt.UTC(),
		FinishedAt:     finishedAt.UTC(),
	}
}

// Duration is the time spent between the quiz appearing and the score arriving.
func (a Attempt) Duration() time.Duration {
	return a.FinishedAt.Sub(a.StartedAt)
}

// Recorder stores and lists attempts, newest first.
type Recorder interface {
	Record(ctx context.Context, a Attempt) error
	Recent(ctx context.Context, limit int) ([]Attempt, error)
}

// Nop discards attempts.
type Nop struct{}

func (Nop) Record(context.Context, Attempt) error { return nil }

func (Nop) Recent(context.Context, int) ([]Attempt, error) { return nil, nil }
