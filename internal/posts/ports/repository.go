package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. Adapters translate driver-specific
// "no rows" / "no documents" errors to these.
var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")
)

// PostRepository defines the persistence contract for the post aggregate.
//
// Every embedded-comment mutation and the view increment is a single atomic
// write against one post. The bool results report whether a post (and, for
// comment operations, the addressed comment) matched; false means it was
// removed concurrently.
type PostRepository interface {
	// FindByID loads a post with all its comments
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// ListNewestFirst loads every post ordered by creation time, newest first
	ListNewestFirst(ctx context.Context) ([]*domain.Post, error)

	// Create inserts a new post
	Create(ctx context.Context, post *domain.Post) error

	// ApplyScalarUpdate writes only the changed scalar fields and updatedAt
	ApplyScalarUpdate(ctx context.Context, id uuid.UUID, changes domain.ScalarChanges, updatedAt time.Time) (bool, error)

	// AppendComment pushes a comment to the end of the post's comment list
	AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment, updatedAt time.Time) (bool, error)

	// RemoveComment pulls one comment by identifier, keeping the order of the rest
	RemoveComment(ctx context.Context, id, commentID uuid.UUID, updatedAt time.Time) (bool, error)

	// UpdateCommentContent rewrites the content of the comment addressed by identifier
	UpdateCommentContent(ctx context.Context, id, commentID uuid.UUID, content string, updatedAt time.Time) (bool, error)

	// IncrementViews adds one view and returns the post after the increment
	IncrementViews(ctx context.Context, id uuid.UUID, updatedAt time.Time) (*domain.Post, error)

	// Delete removes the post together with its comments
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// IdentityResolver turns author identifiers into public profiles.
// This is a driven port - the posts module needs display names
// but doesn't know where users are stored.
type IdentityResolver interface {
	Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]PublicProfile, error)
}

// PublicProfile is the projection of a user that may be shown to anyone.
type PublicProfile struct {
	ID       uuid.UUID
	Username string
}
