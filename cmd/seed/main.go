package main

import (
	"context"
	"log"
	"math/rand/v2"

	"github.com/philly/memo-board/internal/adapters/auth"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/platform/seeder"
	"github.com/philly/memo-board/internal/server"
)

func main() {
	ctx := context.Background()

	config, err := server.LoadConfig(logger.NewBootstrapLogger())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if config.StorageDriver == server.DriverMemory {
		log.Fatalf("Refusing to seed %q storage: data would vanish when this process exits", server.DriverMemory)
	}

	appLogger := logger.NewConfiguredLogger(logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	})

	storage, cleanup, err := server.OpenStorage(ctx, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer cleanup()

	board := seeder.DefaultBoardConfig()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	users := seeder.NewUsersSeeder(storage.Users, auth.NewBcryptHasher(), board.Users, rng)
	posts := seeder.NewPostsSeeder(storage.Posts, users, board, rng)

	orchestrator := seeder.NewOrchestrator(appLogger, storage.Purge, []seeder.Seeder{users, posts})
	if err := orchestrator.RunAll(ctx); err != nil {
		cleanup()
		log.Fatalf("Seeding failed: %v", err)
	}

	appLogger.Info(ctx, "seeding complete, log in with any seeded username",
		"password", seeder.DefaultPassword,
		"users", board.Users,
		"posts", board.Users*board.PostsPerUser,
	)
}
