package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// execQuerier is the subset of pgxpool.Pool the recorder needs.
type execQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const insertAttemptSQL = `INSERT INTO quiz_attempts
	(attempt_id, quiz_title, score, total_questions, percentage, answered, auto_submitted, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const recentAttemptsSQL = `SELECT attempt_id, quiz_title, score, total_questions, percentage, answered, auto_submitted, started_at, finished_at
FROM quiz_attempts
ORDER BY finished_at DESC
LIMIT $1`

// PostgresRecorder writes attempts to the quiz_attempts table.
type PostgresRecorder struct {
	db execQuerier
}

var _ Recorder = (*PostgresRecorder)(nil)

func NewPostgresRecorder(db execQuerier) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, a Attempt) error {
	_, err := r.db.Exec(ctx, insertAttemptSQL,
		a.ID, a.QuizTitle, a.Score, a.TotalQuestions, a.Percentage,
		a.Answered, a.AutoSubmitted, a.StartedAt, a.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, recentAttemptsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.QuizTitle, &a.Score, &a.TotalQuestions, &a.Percentage,
			&a.Answered, &a.AutoSubmitted, &a.StartedAt, &a.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
