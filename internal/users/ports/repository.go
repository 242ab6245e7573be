package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/users/domain"
)

var (
	// ErrUserNotFound is returned when no user matches
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned by Create when the unique username constraint fires
	ErrUsernameTaken = errors.New("username taken")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// FindByIDs is a single batched lookup. Unknown ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer issues and validates bearer credentials carrying a user ID.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	// Validate returns the user ID claim of a valid token.
	// ErrInvalidToken for unparsable/expired tokens, ErrInvalidTokenPayload when the claim is missing.
	Validate(token string) (uuid.UUID, error)
}

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidTokenPayload = errors.New("invalid token payload")
)
