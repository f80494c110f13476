package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
	apierrors "github.com/gokatarajesh/quiz-desk/pkg/http/errors"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// HTTPClient talks to the backend over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg Config, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// GetRandomQuizData fetches count questions.
func (c *HTTPClient) GetRandomQuizData(ctx context.Context, count int) (quiz.Quiz, error) {
	values := url.Values{}
	values.Set("count", strconv.Itoa(count))

	var q quiz.Quiz
	if err := c.do(ctx, http.MethodGet, "/v1/quizzes/random?"+values.Encode(), nil, &q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("fetch quiz: %w", err)
	}
	return checkQuiz(q)
}

// SubmitAnswers posts the answer map for scoring.
func (c *HTTPClient) SubmitAnswers(ctx context.Context, answers quiz.AnswerMap, totalQuestions int) (quiz.ScoringResult, error) {
	body, err := json.Marshal(submitRequest{Answers: nonNil(answers), TotalQuestions: totalQuestions})
	if err != nil {
		return quiz.ScoringResult{}, err
	}

	var res quiz.ScoringResult
	if err := c.do(ctx, http.MethodPost, "/v1/submissions", body, &res); err != nil {
		return quiz.ScoringResult{}, fmt.Errorf("submit answers: %w", err)
	}
	return res, nil
}

// Close is a no-op; the underlying transport is shared.
func (c *HTTPClient) Close() error {
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apierrors.FromResponse(resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
