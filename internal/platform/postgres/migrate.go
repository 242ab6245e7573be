package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/philly/memo-board/internal/platform/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func getMigrateInstance(databaseURL string) (*migrate.Migrate, error) {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, migrateURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(ctx context.Context, databaseURL string, log logger.Logger) error {
	m, err := getMigrateInstance(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current active migration version: %w", err)
	}

	log.Info(ctx, "migration applied successfully", "version", version, "dirty", dirty)

	return nil
}

// MigrateDown rolls every migration back.
func MigrateDown(databaseURL string) error {
	m, err := getMigrateInstance(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration down: %w", err)
	}

	return nil
}

// migrateURL points a libpq-style URL at the pgx/v5 migrate driver.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}
