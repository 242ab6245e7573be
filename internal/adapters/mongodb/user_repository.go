package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/philly/memo-board/internal/users/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository implements the users.UserRepository interface on MongoDB
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new MongoDB user repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: db.Collection(UsersCollection),
	}
}

// Create inserts a user. The unique username index turns a race between two
// registrations into ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.ErrUsernameTaken
		}
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "FindByID", bson.D{{Key: "_id", Value: id.String()}})
}

// FindByIDs returns the users that exist among ids in a single query
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.FindByIDs: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("UserRepository.FindByIDs: decode: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		user, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("UserRepository.FindByIDs: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// FindByUsername retrieves a user by exact username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "FindByUsername", bson.D{{Key: "username", Value: username}})
}

// ExistsByUsername checks if a username is already registered
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "username", Value: username}})
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByUsername: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, op string, filter bson.D) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("UserRepository.%s: %w", op, err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.%s: %w", op, err)
	}
	return user, nil
}

// Compile-time check to ensure we implement the interface
var _ ports.UserRepository = (*UserRepository)(nil)
