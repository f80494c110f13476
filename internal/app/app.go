package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/quiz-desk/internal/backend"
	"github.com/gokatarajesh/quiz-desk/internal/config"
	"github.com/gokatarajesh/quiz-desk/internal/journal"
	"github.com/gokatarajesh/quiz-desk/internal/logging"
	"github.com/gokatarajesh/quiz-desk/internal/metrics"
	"github.com/gokatarajesh/quiz-desk/internal/server"
	"github.com/gokatarajesh/quiz-desk/internal/session"
	"github.com/gokatarajesh/quiz-desk/internal/tui"
)

// Application aggregates the session, its backend and the optional ops listener.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	gateway      backend.Client
	controller   *session.Controller
	registry     *prometheus.Registry
	http         *http.Server
	closeJournal func()
	closeLog     io.Closer
	customLogger bool

	programOpts []tea.ProgramOption
}

// Option customizes New; tests use it to swap the terminal and log sink.
type Option func(*Application)

// WithProgramOptions passes options to the bubbletea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(a *Application) { a.programOpts = append(a.programOpts, opts...) }
}

// WithLogger replaces the file logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
		a.customLogger = true
	}
}

// New bootstraps logger, backend gateway, journal, metrics and the session.
func New(ctx context.Context, cfg *config.App, opts ...Option) (*Application, error) {
	a := &Application{cfg: cfg, closeJournal: func() {}}
	for _, opt := range opts {
		opt(a)
	}
	if !a.customLogger {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closeLog = f
		a.logger = logging.New(cfg.Name, cfg.Env, cfg.LogLevel, f)
	}
	a.logger.Info().Str("backend", cfg.Backend.URL).Msg("starting application bootstrap")

	gateway, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	}, a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build backend client: %w", err)
	}
	a.gateway = gateway

	rec, closeJournal, err := OpenJournal(ctx, cfg)
	if err != nil {
		a.logger.Warn().Err(err).Str("driver", cfg.Journal.Driver).Msg("journal unavailable, attempts will not be recorded")
		rec, closeJournal = journal.Nop{}, func() {}
	}
	a.closeJournal = closeJournal

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collectorsSet := metrics.New(a.registry)

	a.controller = session.New(gateway, session.Options{
		QuestionCount: cfg.Quiz.QuestionCount,
		TimeLimit:     cfg.Quiz.TimeLimit,
		TickInterval:  cfg.Quiz.TickInterval,
		Observer:      collectorsSet,
		Journal:       rec,
	}, a.logger)

	if cfg.OpsHTTPAddr != "" {
		a.http = server.NewHTTPServer(cfg.OpsHTTPAddr, a.logger, a.registry, a.controller)
	}
	return a, nil
}

// Controller exposes the session for callers that drive it without the TUI.
func (a *Application) Controller() *session.Controller {
	return a.controller
}

// Run starts the terminal UI and the ops listener and blocks until the UI
// exits or a shutdown signal arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, a.logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	model := tui.New(gctx, a.controller, tui.Config{
		QuestionCount: a.cfg.Quiz.QuestionCount,
		TimeLimit:     a.cfg.Quiz.TimeLimit,
	})
	programOpts := append([]tea.ProgramOption{tea.WithContext(gctx)}, a.programOpts...)
	program := tea.NewProgram(model, programOpts...)

	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("terminal ui: %w", err)
		}
		return nil
	})

	if a.http != nil {
		g.Go(func() error {
			a.logger.Info().Str("addr", a.http.Addr).Msg("ops listener started")
			if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
			defer cancel()
			if err := a.http.Shutdown(shutdownCtx); err != nil {
				a.logger.Error().Err(err).Msg("http shutdown error")
			}
			return nil
		})
	}

	err := g.Wait()
	a.Close()
	return err
}

// Close releases the session, backend, journal and log file.
func (a *Application) Close() {
	if a.controller != nil {
		a.controller.Close()
	}
	if a.gateway != nil {
		if err := a.gateway.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("backend close error")
		}
	}
	a.closeJournal()
	a.closeJournal = func() {}
	a.logger.Info().Msg("shutdown complete")
	if a.closeLog != nil {
		_ = a.closeLog.Close()
		a.closeLog = nil
	}
}
