package server

import (
	"github.com/philly/memo-board/internal/adapters/auth"
	"github.com/philly/memo-board/internal/platform/logger"
	postsApp "github.com/philly/memo-board/internal/posts/application"
	usersApp "github.com/philly/memo-board/internal/users/application"
)

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideTokenConfig creates the token settings from server config
func provideTokenConfig(config Config) auth.TokenConfig {
	return auth.TokenConfig{
		Secret: config.JWTSecret,
		Expiry: config.JWTExpiry,
	}
}

// provideResolverConfig creates the identity cache settings from server config
func provideResolverConfig(config Config) usersApp.ResolverConfig {
	return usersApp.ResolverConfig{
		CacheTTL: config.IdentityCacheTTL,
	}
}

// providePostsConfig creates the posts service settings from server config
func providePostsConfig(config Config) postsApp.Config {
	return postsApp.Config{
		SanitizeHTML: config.SanitizeHTML,
	}
}
