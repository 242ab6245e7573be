package identity_adapter

import (
	"context"

	"github.com/google/uuid"
	postsPorts "github.com/philly/memo-board/internal/posts/ports"
	usersApp "github.com/philly/memo-board/internal/users/application"
)

// IdentityAdapter bridges the users module's resolver with the posts module,
// which only knows its own IdentityResolver port.
type IdentityAdapter struct {
	resolver *usersApp.IdentityResolver
}

// NewIdentityAdapter creates a new identity adapter
func NewIdentityAdapter(resolver *usersApp.IdentityResolver) *IdentityAdapter {
	return &IdentityAdapter{
		resolver: resolver,
	}
}

// Resolve satisfies posts/ports.IdentityResolver
func (a *IdentityAdapter) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]postsPorts.PublicProfile, error) {
	profiles, err := a.resolver.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]postsPorts.PublicProfile, len(profiles))
	for id, p := range profiles {
		out[id] = postsPorts.PublicProfile{ID: p.ID, Username: p.Username}
	}
	return out, nil
}

// Compile-time check to ensure we implement the interface
var _ postsPorts.IdentityResolver = (*IdentityAdapter)(nil)
