package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quiz-desk/internal/app"
	"github.com/gokatarajesh/quiz-desk/internal/config"
)

type runFlags struct {
	backendURL string
	count      int
	timeLimit  time.Duration
	opsAddr    string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backendURL, "backend-url", "", "quiz backend base URL (http(s):// or ws(s)://), overrides BACKEND_URL")
	cmd.Flags().IntVar(&f.count, "count", 0, "questions per quiz, overrides QUIZ_QUESTION_COUNT")
	cmd.Flags().DurationVar(&f.timeLimit, "time-limit", 0, "countdown length, overrides QUIZ_TIME_LIMIT")
	cmd.Flags().StringVar(&f.opsAddr, "ops-addr", "", "serve /healthz, /metrics and /v1/session on this address")
}

// apply copies explicitly set flags over the environment config.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.App) error {
	if cmd.Flags().Changed("backend-url") {
		cfg.Backend.URL = f.backendURL
	}
	if cmd.Flags().Changed("count") {
		cfg.Quiz.QuestionCount = f.count
	}
	if cmd.Flags().Changed("time-limit") {
		cfg.Quiz.TimeLimit = f.timeLimit
	}
	if cmd.Flags().Changed("ops-addr") {
		cfg.OpsHTTPAddr = f.opsAddr
	}
	return cfg.Validate()
}

// NewRunCmd starts an interactive quiz session.
func NewRunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(cmd, flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func loadRunConfig(cmd *cobra.Command, flags *runFlags) (*config.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runQuiz(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadRunConfig(cmd, flags)
	if err != nil {
		return err
	}

	instance, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return instance.Run(cmd.Context())
}
