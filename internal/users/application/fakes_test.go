package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/philly/memo-board/internal/users/ports"
)

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	findByIDsLog [][]uuid.UUID
	failWith     error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return ports.ErrUsernameTaken
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDsLog = append(r.findByIDsLog, append([]uuid.UUID(nil), ids...))
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if errors.Is(err, ports.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) batches() [][]uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByIDsLog
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }

type fakeTokens struct{}

func (fakeTokens) Issue(userID uuid.UUID) (string, error) { return "tok." + userID.String(), nil }

func (fakeTokens) Validate(token string) (uuid.UUID, error) {
	if token == "tok." {
		return uuid.Nil, ports.ErrInvalidTokenPayload
	}
	raw, ok := strings.CutPrefix(token, "tok.")
	if !ok {
		return uuid.Nil, ports.ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ports.ErrInvalidToken
	}
	return id, nil
}
