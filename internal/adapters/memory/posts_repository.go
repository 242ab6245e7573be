// Package memory keeps posts and users in process memory. Every operation
// holds the repository lock for its whole duration, which gives the same
// per-document atomicity the database adapters get from the server.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
)

// PostRepository implements ports.PostRepository in memory
type PostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*domain.Post
}

// NewPostRepository creates an empty in-memory posts repository
func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *PostRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *PostRepository) ListNewestFirst(_ context.Context) ([]*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, clonePost(p))
	}
	slices.SortStableFunc(posts, func(a, b *domain.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return posts, nil
}

func (r *PostRepository) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) ApplyScalarUpdate(_ context.Context, id uuid.UUID, changes domain.ScalarChanges, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	if changes.Title != nil {
		post.Title = *changes.Title
	}
	if changes.Body != nil {
		post.Body = *changes.Body
	}
	if changes.SetImageURL {
		post.ImageURL = cloneString(changes.ImageURL)
	}
	if changes.SetCategory {
		post.Category = changes.Category
	}
	post.Touch(updatedAt)
	return true, nil
}

func (r *PostRepository) AppendComment(_ context.Context, id uuid.UUID, comment domain.Comment, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	post.AddComment(comment, updatedAt)
	return true, nil
}

func (r *PostRepository) RemoveComment(_ context.Context, id, commentID uuid.UUID, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	if err := post.RemoveComment(commentID, updatedAt); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *PostRepository) UpdateCommentContent(_ context.Context, id, commentID uuid.UUID, content string, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	if _, err := post.EditComment(commentID, content, updatedAt); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PostRepository) IncrementViews(_ context.Context, id uuid.UUID, updatedAt time.Time) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	post.Views++
	post.Touch(updatedAt)
	return clonePost(post), nil
}

func (r *PostRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	c.ImageURL = cloneString(p.ImageURL)
	c.Comments = append(make([]domain.Comment, 0, len(p.Comments)), p.Comments...)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ ports.PostRepository = (*PostRepository)(nil)
