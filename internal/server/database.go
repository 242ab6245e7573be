package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/memo-board/internal/platform/logger"
)

const (
	pingAttempts = 5
	pingBackoff  = time.Second
)

// ConnectDatabase opens the postgres pool behind the postgres storage driver.
// The database often starts alongside the server, so the first ping is retried
// a few times before giving up.
func ConnectDatabase(ctx context.Context, config Config, log logger.Logger) (*pgxpool.Pool, func(), error) {
	log.Info(ctx, "connecting to postgres")

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to parse database URL", "error", err)
		return nil, nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error(ctx, "failed to create connection pool", "error", err)
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, log); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info(ctx, "postgres connection established",
		"max_conns", poolConfig.MaxConns,
		"database", poolConfig.ConnConfig.Database,
	)

	cleanup := func() {
		log.Info(context.Background(), "closing postgres connection pool")
		pool.Close()
	}
	return pool, cleanup, nil
}

func pingWithRetry(ctx context.Context, pool *pgxpool.Pool, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		log.Warn(ctx, "postgres not ready", "attempt", attempt, "error", err)
		if attempt == pingAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * pingBackoff):
		}
	}
	log.Error(ctx, "failed to ping database", "error", err)
	return fmt.Errorf("failed to ping database: %w", err)
}
