package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// developmentSecret signs tokens only when ENVIRONMENT is development
const developmentSecret = "change_this_secret"

type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"ENVIRONMENT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"` // Logging level (debug, info, warn, error)

	StorageDriver       string `mapstructure:"STORAGE_DRIVER"` // postgres, mongo or memory
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	DatabaseAutoMigrate bool   `mapstructure:"DATABASE_AUTO_MIGRATE"`
	MongoURI            string `mapstructure:"MONGO_URI"`
	MongoDatabase       string `mapstructure:"MONGO_DATABASE"`

	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTExpiry        time.Duration `mapstructure:"JWT_EXPIRY"`
	IdentityCacheTTL time.Duration `mapstructure:"IDENTITY_CACHE_TTL"`
	SanitizeHTML     bool          `mapstructure:"SANITIZE_HTML"`
}

// IsDevelopment reports whether the server runs in the development environment
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// Load .env file if it exists (godotenv will find it automatically)
	// It's okay if the file doesn't exist - we'll use environment variables
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := newViper()

	// Unmarshal the configuration into our struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"storage_driver", config.StorageDriver,
	)

	if err := config.validate(); err != nil {
		bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
		return Config{}, err
	}

	if config.JWTSecret == "" {
		bootstrapLogger.Warn(ctx, "JWT_SECRET not set, using the development secret")
		config.JWTSecret = developmentSecret
	}

	bootstrapLogger.Info(ctx, "configuration validated successfully")
	return config, nil
}

func newViper() *viper.Viper {
	// Create a new Viper instance
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_ADDRESS", ":5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "postgresql://localhost:5432/memoboard?sslmode=disable")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DATABASE", "memo-app")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", 168*time.Hour)
	v.SetDefault("IDENTITY_CACHE_TTL", 30*time.Second)
	v.SetDefault("SANITIZE_HTML", false)

	// Enable automatic environment variable reading
	// Viper will now see all environment variables, including those loaded by godotenv
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.IdentityCacheTTL < 0 {
		return errors.New("IDENTITY_CACHE_TTL must not be negative")
	}
	return nil
}
