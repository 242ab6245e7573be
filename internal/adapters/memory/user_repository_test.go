package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/adapters/memory"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/philly/memo-board/internal/users/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	alice, err := domain.NewUser("alice", "hash", t0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, alice))

	dup, err := domain.NewUser("alice", "hash2", t0)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), ports.ErrUsernameTaken)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ports.ErrUserNotFound)

	users, err := repo.FindByIDs(ctx, []uuid.UUID{alice.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}
