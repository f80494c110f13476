package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/quiz-desk/internal/config"
	"github.com/gokatarajesh/quiz-desk/internal/journal"
)

// OpenJournal connects the recorder named by JOURNAL_DRIVER. The returned
// func releases its connections.
func OpenJournal(ctx context.Context, cfg *config.App) (journal.Recorder, func(), error) {
	switch cfg.Journal.Driver {
	case journal.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		rec := journal.NewRedisRecorder(client, cfg.Journal.RedisKey, cfg.Journal.MaxEntries)
		return rec, func() { _ = client.Close() }, nil

	case journal.DriverPostgres:
		connString := fmt.Sprintf("%s pool_max_conns=%d", cfg.Postgres.DSN(), cfg.Postgres.MaxConns)
		pool, err := pgxpool.New(ctx, connString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return journal.NewPostgresRecorder(pool), pool.Close, nil

	case journal.DriverNone, "":
		return journal.Nop{}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", journal.ErrUnknownDriver, cfg.Journal.Driver)
	}
}
