package seeder

import (
	"context"
	"fmt"

	"github.com/philly/memo-board/internal/platform/logger"
)

// Seeder defines the interface for all data seeders
type Seeder interface {
	// Name returns the name of the seeder for logging
	Name() string

	// Seed runs the seeding logic against the configured repositories
	Seed(ctx context.Context) error
}

// PurgeFunc wipes existing data before seeding
type PurgeFunc func(ctx context.Context) error

// Orchestrator manages and runs multiple seeders in order
type Orchestrator struct {
	seeders []Seeder
	logger  logger.Logger
	purge   PurgeFunc
}

// NewOrchestrator creates a new seeder orchestrator with all seeders injected.
// purge may be nil, in which case existing data is kept.
func NewOrchestrator(logger logger.Logger, purge PurgeFunc, seeders []Seeder) *Orchestrator {
	return &Orchestrator{
		seeders: seeders,
		logger:  logger,
		purge:   purge,
	}
}

// RunAll clears existing data and then executes all registered seeders in order
func (o *Orchestrator) RunAll(ctx context.Context) error {
	if o.purge != nil {
		o.logger.Info(ctx, "clearing existing data")
		if err := o.purge(ctx); err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}
	}

	o.logger.Info(ctx, "starting data seeding", "seeder_count", len(o.seeders))

	for _, seeder := range o.seeders {
		o.logger.Info(ctx, "running seeder", "seeder", seeder.Name())

		if err := seeder.Seed(ctx); err != nil {
			o.logger.Error(ctx, "seeder failed",
				"seeder", seeder.Name(),
				"error", err,
			)
			return fmt.Errorf("seeder %s failed: %w", seeder.Name(), err)
		}

		o.logger.Info(ctx, "seeder completed successfully", "seeder", seeder.Name())
	}

	o.logger.Info(ctx, "all seeders completed successfully")
	return nil
}
