// Package backend speaks the quiz backend's two-call contract: fetch a
// random quiz and submit answers for scoring.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

// Gateway is the external quiz-data provider and scorer.
type Gateway interface {
	GetRandomQuizData(ctx context.Context, count int) (quiz.Quiz, error)
	SubmitAnswers(ctx context.Context, answers quiz.AnswerMap, totalQuestions int) (quiz.ScoringResult, error)
}

// Client is a Gateway that holds transport resources.
type Client interface {
	Gateway
	Close() error
}

// Config selects and tunes a transport.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ErrUnsupportedScheme is returned by New for URLs it cannot route.
var ErrUnsupportedScheme = errors.New("unsupported backend scheme")

const apiKeyHeader = "X-API-Key"

// New picks the transport from the URL scheme: http(s) or ws(s).
func New(cfg Config, logger zerolog.Logger) (Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(cfg, nil), nil
	case "ws", "wss":
		return NewWSClient(cfg, nil, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

type submitRequest struct {
	Answers        quiz.AnswerMap `json:"answers"`
	TotalQuestions int            `json:"totalQuestions"`
}

func checkQuiz(q quiz.Quiz) (quiz.Quiz, error) {
	if err := q.Validate(); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

func nonNil(answers quiz.AnswerMap) quiz.AnswerMap {
	if answers == nil {
		return quiz.AnswerMap{}
	}
	return answers
}
