package seeder_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/philly/memo-board/internal/adapters/auth"
	"github.com/philly/memo-board/internal/adapters/memory"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/platform/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingSeeder struct {
	name  string
	err   error
	calls *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Seed(context.Context) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func TestOrchestrator_RunAll(t *testing.T) {
	var calls []string
	purge := func(context.Context) error {
		calls = append(calls, "purge")
		return nil
	}

	o := seeder.NewOrchestrator(logger.NewNop(), purge, []seeder.Seeder{
		recordingSeeder{name: "first", calls: &calls},
		recordingSeeder{name: "second", calls: &calls},
	})

	require.NoError(t, o.RunAll(context.Background()))
	assert.Equal(t, []string{"purge", "first", "second"}, calls)
}

func TestOrchestrator_StopsOnFailure(t *testing.T) {
	var calls []string
	boom := errors.New("boom")

	o := seeder.NewOrchestrator(logger.NewNop(), nil, []seeder.Seeder{
		recordingSeeder{name: "first", err: boom, calls: &calls},
		recordingSeeder{name: "second", calls: &calls},
	})

	err := o.RunAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first"}, calls)
}

func TestOrchestrator_PurgeFailure(t *testing.T) {
	var calls []string
	o := seeder.NewOrchestrator(logger.NewNop(), func(context.Context) error {
		return errors.New("read only")
	}, []seeder.Seeder{recordingSeeder{name: "first", calls: &calls}})

	assert.Error(t, o.RunAll(context.Background()))
	assert.Empty(t, calls)
}

func TestBoardSeeders(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	posts := memory.NewPostRepository()
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)
	rng := rand.New(rand.NewPCG(1, 2))
	cfg := seeder.BoardConfig{Users: 3, PostsPerUser: 2, CommentsPerPost: 2}

	usersSeeder := seeder.NewUsersSeeder(users, hasher, cfg.Users, rng)
	postsSeeder := seeder.NewPostsSeeder(posts, usersSeeder, cfg, rng)

	o := seeder.NewOrchestrator(logger.NewNop(), nil, []seeder.Seeder{usersSeeder, postsSeeder})
	require.NoError(t, o.RunAll(ctx))

	ids := usersSeeder.UserIDs()
	require.Len(t, ids, 3)
	for _, id := range ids {
		user, err := users.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, hasher.Verify(user.PasswordHash, seeder.DefaultPassword))
	}

	all, err := posts.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i, post := range all {
		assert.Contains(t, ids, post.AuthorID)
		assert.NotEmpty(t, post.Title)
		assert.NotEmpty(t, post.Body)
		assert.Len(t, post.Comments, 2)
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
		assert.LessOrEqual(t, post.Likes, int64(150))
		assert.LessOrEqual(t, post.Dislikes, int64(30))
		for _, c := range post.Comments {
			assert.Contains(t, ids, c.AuthorID)
			assert.True(t, c.CreatedAt.After(post.CreatedAt))
		}
		if i > 0 {
			assert.False(t, post.CreatedAt.After(all[i-1].CreatedAt))
		}
	}
}

func TestPostsSeeder_RequiresUsers(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	users := seeder.NewUsersSeeder(memory.NewUserRepository(), auth.NewBcryptHasherWithCost(bcrypt.MinCost), 0, rng)
	posts := seeder.NewPostsSeeder(memory.NewPostRepository(), users, seeder.DefaultBoardConfig(), rng)

	assert.Error(t, posts.Seed(context.Background()))
}
