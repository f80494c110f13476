package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "quiz-desk", cfg.Name)
	assert.Equal(t, "quizdesk.log", cfg.LogFile)
	assert.Empty(t, cfg.OpsHTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 20, cfg.Quiz.QuestionCount)
	assert.Equal(t, 600, cfg.Quiz.TimeLimitSeconds())
	assert.Equal(t, time.Second, cfg.Quiz.TickInterval)
	assert.Equal(t, "none", cfg.Journal.Driver)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "wss://quiz.example.com/ws")
	t.Setenv("QUIZ_QUESTION_COUNT", "5")
	t.Setenv("QUIZ_TIME_LIMIT", "90s")
	t.Setenv("JOURNAL_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wss://quiz.example.com/ws", cfg.Backend.URL)
	assert.Equal(t, 5, cfg.Quiz.QuestionCount)
	assert.Equal(t, 90, cfg.Quiz.TimeLimitSeconds())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero count", "QUIZ_QUESTION_COUNT", "0"},
		{"sub-second limit", "QUIZ_TIME_LIMIT", "500ms"},
		{"unknown driver", "JOURNAL_DRIVER", "sqlite"},
		{"postgres without credentials", "JOURNAL_DRIVER", "postgres"},
		{"unparseable duration", "BACKEND_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := Postgres{Host: "db", Port: 5433, User: "quiz", Password: "pw", Database: "attempts", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=quiz password=pw dbname=attempts sslmode=require", p.DSN())
}
