//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/philly/memo-board/internal/adapters/auth"
	"github.com/philly/memo-board/internal/adapters/identity_adapter"
	"github.com/philly/memo-board/internal/adapters/rest"
	"github.com/philly/memo-board/internal/adapters/rest/middleware"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/platform/ownership"
	postsApp "github.com/philly/memo-board/internal/posts/application"
	usersApp "github.com/philly/memo-board/internal/users/application"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,

		// Main logger
		logger.ProviderSet,

		// Storage (driver picked from config at runtime)
		OpenStorage,
		providePostRepository,
		provideUserRepository,
		providePing,

		// Platform services
		provideEventBus,
		ownership.ProviderSet,

		// Credentials
		auth.ProviderSet,
		provideTokenConfig,

		// Application services
		usersApp.ProviderSet,
		provideResolverConfig,
		identity_adapter.ProviderSet,
		postsApp.ProviderSet,
		providePostsConfig,

		// REST handlers
		rest.ProviderSet,
		provideVersion, // Provide version string for HealthHandler

		// Auth middleware
		middleware.ProviderSet,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
