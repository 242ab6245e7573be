package middleware

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "userID"

	identitySlotKey contextKey = "identitySlot"
)

// IdentitySlot lets an outer handler see the identity that an inner
// middleware attached to a derived request context.
type IdentitySlot struct {
	mu     sync.Mutex
	userID uuid.UUID
}

// UserID returns the recorded identity, or uuid.Nil for anonymous requests.
func (s *IdentitySlot) UserID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// TrackIdentity attaches an empty slot that SetUserID fills in.
func TrackIdentity(ctx context.Context) (context.Context, *IdentitySlot) {
	slot := &IdentitySlot{}
	return context.WithValue(ctx, identitySlotKey, slot), slot
}

// SetUserID stores the acting identity in the request context
// This should be called by the authentication middleware after validating the token
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if slot, ok := ctx.Value(identitySlotKey).(*IdentitySlot); ok {
		slot.mu.Lock()
		slot.userID = userID
		slot.mu.Unlock()
	}
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID is a helper function to get the user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
