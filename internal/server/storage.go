package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/memo-board/internal/adapters/memory"
	"github.com/philly/memo-board/internal/adapters/mongodb"
	"github.com/philly/memo-board/internal/adapters/postgres"
	"github.com/philly/memo-board/internal/adapters/rest"
	"github.com/philly/memo-board/internal/platform/logger"
	mongoplatform "github.com/philly/memo-board/internal/platform/mongodb"
	pgplatform "github.com/philly/memo-board/internal/platform/postgres"
	postsPorts "github.com/philly/memo-board/internal/posts/ports"
	usersPorts "github.com/philly/memo-board/internal/users/ports"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Storage is the repository pair of the configured driver. The driver is a
// runtime setting, so it is chosen here rather than in the injector.
type Storage struct {
	Driver string
	Posts  postsPorts.PostRepository
	Users  usersPorts.UserRepository

	ping  rest.PingFunc
	purge func(ctx context.Context) error
}

// OpenStorage connects the configured driver and returns its repositories
// with a cleanup function that releases the connection.
func OpenStorage(ctx context.Context, config Config, log logger.Logger) (*Storage, func(), error) {
	switch config.StorageDriver {
	case DriverPostgres:
		pool, cleanup, err := ConnectDatabase(ctx, config, log)
		if err != nil {
			return nil, nil, err
		}
		if config.DatabaseAutoMigrate {
			if err := pgplatform.MigrateUp(ctx, config.DatabaseURL, log); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return newPostgresStorage(pool), cleanup, nil

	case DriverMongo:
		db, cleanup, err := mongoplatform.Connect(ctx, mongoplatform.Config{
			URI:      config.MongoURI,
			Database: config.MongoDatabase,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			cleanup()
			log.Error(ctx, "failed to create mongodb indexes", "error", err)
			return nil, nil, fmt.Errorf("failed to create mongodb indexes: %w", err)
		}
		return newMongoStorage(db), cleanup, nil

	case DriverMemory:
		log.Warn(ctx, "using in-memory storage, data is lost on shutdown")
		return NewMemoryStorage(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", config.StorageDriver)
	}
}

func newPostgresStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		Driver: DriverPostgres,
		Posts:  postgres.NewPostRepository(pool),
		Users:  postgres.NewUserRepository(pool),
		ping:   pool.Ping,
		purge: func(ctx context.Context) error {
			_, err := pool.Exec(ctx, "TRUNCATE posts, users")
			return err
		},
	}
}

func newMongoStorage(db *mongo.Database) *Storage {
	return &Storage{
		Driver: DriverMongo,
		Posts:  mongodb.NewPostRepository(db),
		Users:  mongodb.NewUserRepository(db),
		ping: func(ctx context.Context) error {
			return mongoplatform.Ping(ctx, db)
		},
		purge: func(ctx context.Context) error {
			for _, name := range []string{mongodb.PostsCollection, mongodb.UsersCollection} {
				if err := db.Collection(name).Drop(ctx); err != nil {
					return err
				}
			}
			return mongodb.EnsureIndexes(ctx, db)
		},
	}
}

// NewMemoryStorage returns process-local repositories. Tests use it to run
// the full HTTP stack without a database.
func NewMemoryStorage() *Storage {
	return &Storage{
		Driver: DriverMemory,
		Posts:  memory.NewPostRepository(),
		Users:  memory.NewUserRepository(),
		ping:   func(context.Context) error { return nil },
		purge: func(context.Context) error {
			return errors.New("in-memory storage lives only inside the serving process")
		},
	}
}

// Ping checks that the backend answers
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Purge deletes every post and user
func (s *Storage) Purge(ctx context.Context) error {
	if err := s.purge(ctx); err != nil {
		return fmt.Errorf("purge %s storage: %w", s.Driver, err)
	}
	return nil
}

func providePostRepository(s *Storage) postsPorts.PostRepository {
	return s.Posts
}

func provideUserRepository(s *Storage) usersPorts.UserRepository {
	return s.Users
}

func providePing(s *Storage) rest.PingFunc {
	return s.Ping
}
