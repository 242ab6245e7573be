package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/platform/eventbus"
	"github.com/philly/memo-board/internal/platform/events"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/philly/memo-board/internal/users/ports"
)

// ResolverConfig holds the values needed to configure the IdentityResolver
type ResolverConfig struct {
	// CacheTTL is how long a resolved profile is reused. Zero disables caching.
	CacheTTL time.Duration
}

type cachedProfile struct {
	profile   domain.PublicProfile
	expiresAt time.Time
}

// IdentityResolver maps user IDs to public profiles with at most one batched
// store lookup per call. Positive results are cached; unknown IDs never are,
// so a user registered a moment later is found on the next call.
type IdentityResolver struct {
	repo ports.UserRepository
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedProfile
}

// NewIdentityResolver creates the resolver and primes its cache from
// registration events.
func NewIdentityResolver(repo ports.UserRepository, config ResolverConfig, bus *eventbus.Bus) *IdentityResolver {
	r := &IdentityResolver{
		repo:  repo,
		ttl:   config.CacheTTL,
		now:   time.Now,
		cache: make(map[uuid.UUID]cachedProfile),
	}
	if bus != nil {
		bus.Subscribe(events.UserRegisteredTopic, r.onUserRegistered)
	}
	return r
}

// Resolve returns the profiles of the known IDs. Missing IDs are absent from
// the result.
func (r *IdentityResolver) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PublicProfile, error) {
	result := make(map[uuid.UUID]domain.PublicProfile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	misses := r.fromCache(ids, result)
	if len(misses) == 0 {
		return result, nil
	}

	users, err := r.repo.FindByIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("IdentityResolver.Resolve: %w", err)
	}

	profiles := make([]domain.PublicProfile, 0, len(users))
	for _, u := range users {
		p := u.Profile()
		result[p.ID] = p
		profiles = append(profiles, p)
	}
	r.store(profiles...)

	return result, nil
}

// fromCache fills result with cached profiles and returns the distinct IDs
// that still need a lookup.
func (r *IdentityResolver) fromCache(ids []uuid.UUID, result map[uuid.UUID]domain.PublicProfile) []uuid.UUID {
	now := r.now()
	seen := make(map[uuid.UUID]struct{}, len(ids))
	misses := make([]uuid.UUID, 0, len(ids))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if r.ttl > 0 {
			if c, ok := r.cache[id]; ok && now.Before(c.expiresAt) {
				result[id] = c.profile
				continue
			}
		}
		misses = append(misses, id)
	}
	return misses
}

func (r *IdentityResolver) store(profiles ...domain.PublicProfile) {
	if r.ttl <= 0 || len(profiles) == 0 {
		return
	}
	expiresAt := r.now().Add(r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range profiles {
		r.cache[p.ID] = cachedProfile{profile: p, expiresAt: expiresAt}
	}
}

func (r *IdentityResolver) onUserRegistered(_ context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", event.Payload, event.Topic)
	}
	r.store(domain.PublicProfile{ID: payload.UserID, Username: payload.Username})
	return nil
}
