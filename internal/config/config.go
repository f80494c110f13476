package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration for the quiz client.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-desk"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile                 string        `env:"LOG_FILE" envDefault:"quizdesk.log"`
	OpsHTTPAddr             string        `env:"OPS_HTTP_ADDR"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"5s"`

	Backend  Backend
	Quiz     Quiz
	Journal  Journal
	Postgres Postgres
	Redis    Redis
}

// Backend locates the quiz-data provider and scorer.
type Backend struct {
	URL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	APIKey  string        `env:"BACKEND_API_KEY"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`
}

// Quiz groups session defaults.
type Quiz struct {
	QuestionCount int           `env:"QUIZ_QUESTION_COUNT" envDefault:"20"`
	TimeLimit     time.Duration `env:"QUIZ_TIME_LIMIT" envDefault:"600s"`
	TickInterval  time.Duration `env:"QUIZ_TICK_INTERVAL" envDefault:"1s"`
}

// Journal selects where finished attempts are recorded.
type Journal struct {
	Driver     string `env:"JOURNAL_DRIVER" envDefault:"none"`
	RedisKey   string `env:"JOURNAL_REDIS_KEY" envDefault:"quizdesk:attempts"`
	MaxEntries int    `env:"JOURNAL_MAX_ENTRIES" envDefault:"100"`
}

// Postgres captures connection info for the attempt journal.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"4"`
}

// DSN renders the keyword/value connection string pgx and database/sql accept.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds the journal's Redis connection.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"4"`
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the session cannot run with.
func (c *App) Validate() error {
	if c.Quiz.QuestionCount <= 0 {
		return fmt.Errorf("QUIZ_QUESTION_COUNT must be positive, got %d", c.Quiz.QuestionCount)
	}
	if c.Quiz.TimeLimit < time.Second {
		return fmt.Errorf("QUIZ_TIME_LIMIT must be at least 1s, got %s", c.Quiz.TimeLimit)
	}
	if c.Quiz.TickInterval <= 0 {
		return fmt.Errorf("QUIZ_TICK_INTERVAL must be positive, got %s", c.Quiz.TickInterval)
	}
	switch c.Journal.Driver {
	case "none", "redis":
	case "postgres":
		if c.Postgres.User == "" || c.Postgres.Database == "" {
			return fmt.Errorf("JOURNAL_DRIVER=postgres needs PG_USER and PG_DATABASE")
		}
	default:
		return fmt.Errorf("JOURNAL_DRIVER %q is not one of none, redis, postgres", c.Journal.Driver)
	}
	return nil
}

// TimeLimitSeconds is the countdown start value.
func (q Quiz) TimeLimitSeconds() int {
	return int(q.TimeLimit / time.Second)
}
