// Package mongodb owns the MongoDB client lifecycle.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/philly/memo-board/internal/platform/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Config holds the values needed to reach the document store
type Config struct {
	URI      string
	Database string
}

// Connect opens a client, checks it answers and returns the configured
// database with a cleanup function that disconnects.
func Connect(ctx context.Context, config Config, log logger.Logger) (*mongo.Database, func(), error) {
	log.Info(ctx, "connecting to mongodb", "database", config.Database)

	client, err := mongo.Connect(options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(time.Minute))
	if err != nil {
		log.Error(ctx, "failed to create mongodb client", "error", err)
		return nil, nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error(ctx, "failed to ping mongodb", "error", err)
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info(ctx, "mongodb connection established successfully")

	cleanup := func() {
		log.Info(context.Background(), "closing mongodb client")
		disconnectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error(disconnectCtx, "failed to disconnect mongodb client", "error", err)
		}
	}

	return client.Database(config.Database), cleanup, nil
}

// Ping reports whether the database's client still reaches a primary
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}
