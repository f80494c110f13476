package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quiz-desk/db"
	"github.com/gokatarajesh/quiz-desk/internal/config"
	"github.com/gokatarajesh/quiz-desk/internal/logging"
)

var migrateCommands = map[string]func(ctx context.Context, conn *sql.DB, dir string) error{
	"up":   func(ctx context.Context, conn *sql.DB, dir string) error { return goose.UpContext(ctx, conn, dir) },
	"down": func(ctx context.Context, conn *sql.DB, dir string) error { return goose.DownContext(ctx, conn, dir) },
	"status": func(ctx context.Context, conn *sql.DB, dir string) error {
		return goose.StatusContext(ctx, conn, dir)
	},
}

// NewMigrateCmd applies the attempt journal's Postgres schema.
func NewMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run attempt journal migrations against Postgres",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrations(cmd.Context(), command, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "read migrations from this directory instead of the embedded set")
	return cmd
}

func runMigrations(ctx context.Context, command, dir string) error {
	run, ok := migrateCommands[command]
	if !ok {
		return fmt.Errorf("unknown migrate command %q, use up, down or status", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel, os.Stderr)

	conn, err := sql.Open("pgx", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info().
		Str("host", cfg.Postgres.Host).
		Int("port", cfg.Postgres.Port).
		Str("database", cfg.Postgres.Database).
		Msg("connected to database")

	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	} else {
		goose.SetBaseFS(nil)
	}
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := run(ctx, conn, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	logger.Info().Str("command", command).Msg("migrations finished")
	return nil
}
