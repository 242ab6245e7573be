package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/adapters/memory"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func seedPost(t *testing.T, repo *memory.PostRepository, at time.Time) *domain.Post {
	t.Helper()
	post, err := domain.NewPost(uuid.New(), "title", "body", nil, "", domain.Counters{Views: 5}, at)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func TestConcurrentIncrementViews(t *testing.T) {
	repo := memory.NewPostRepository()
	post := seedPost(t, repo, t0)
	const k = 64

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementViews(context.Background(), post.ID, t0.Add(time.Second))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5+k), got.Views)
	assert.Equal(t, t0.Add(time.Second), got.UpdatedAt)
}

func TestConcurrentEditsOfDifferentComments(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()
	post := seedPost(t, repo, t0)

	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		c, err := domain.NewComment(uuid.New(), "original", t0)
		require.NoError(t, err)
		ok, err := repo.AppendComment(ctx, post.ID, c, t0)
		require.NoError(t, err)
		require.True(t, ok)
		ids = append(ids, c.ID)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.UpdateCommentContent(ctx, post.ID, id, fmt.Sprintf("edit-%d", i), t0.Add(time.Minute))
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, len(ids))
	for i, c := range got.Comments {
		assert.Equal(t, ids[i], c.ID)
		assert.Equal(t, fmt.Sprintf("edit-%d", i), c.Content)
	}
}

func TestRemoveCommentKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()
	post := seedPost(t, repo, t0)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		c, err := domain.NewComment(uuid.New(), "c", t0)
		require.NoError(t, err)
		_, err = repo.AppendComment(ctx, post.ID, c, t0)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	ok, err := repo.RemoveComment(ctx, post.ID, ids[1], t0.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3]}, commentIDs(got))
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)

	ok, err = repo.RemoveComment(ctx, post.ID, ids[1], t0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoMatchResults(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()
	missing := uuid.New()

	_, err := repo.FindByID(ctx, missing)
	assert.ErrorIs(t, err, ports.ErrPostNotFound)

	_, err = repo.IncrementViews(ctx, missing, t0)
	assert.ErrorIs(t, err, ports.ErrPostNotFound)

	ok, err := repo.AppendComment(ctx, missing, domain.Comment{ID: uuid.New()}, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ApplyScalarUpdate(ctx, missing, domain.ScalarChanges{SetCategory: true}, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListNewestFirst(t *testing.T) {
	repo := memory.NewPostRepository()
	older := seedPost(t, repo, t0)
	newer := seedPost(t, repo, t0.Add(time.Hour))

	posts, err := repo.ListNewestFirst(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
}

func TestReturnedPostsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()
	post := seedPost(t, repo, t0)

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	got.Title = "changed"

	again, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", again.Title)
}

func commentIDs(p *domain.Post) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Comments))
	for _, c := range p.Comments {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestUpdateCommentContent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()
	post := seedPost(t, repo, t0)

	c, err := domain.NewComment(uuid.New(), "first", t0)
	require.NoError(t, err)
	ok, err := repo.AppendComment(ctx, post.ID, c, t0)
	require.NoError(t, err)
	require.True(t, ok)

	editedAt := t0.Add(time.Hour)
	ok, err = repo.UpdateCommentContent(ctx, post.ID, c.ID, "second", editedAt)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "second", got.Comments[0].Content)
	assert.Equal(t, t0, got.Comments[0].CreatedAt)
	assert.Equal(t, editedAt, got.Comments[0].UpdatedAt)
	assert.Equal(t, editedAt, got.UpdatedAt)

	ok, err = repo.UpdateCommentContent(ctx, post.ID, uuid.New(), "x", editedAt)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.UpdateCommentContent(ctx, post.ID, c.ID, "  ", editedAt)
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}
