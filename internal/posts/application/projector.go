package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
)

// TimeFormat is the wire format of every timestamp: UTC with milliseconds.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// AuthorView is the public author payload. It is null when the author is unknown.
type AuthorView struct {
	LegacyID string `json:"_id"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CommentView is a projected comment.
type CommentView struct {
	LegacyID  string      `json:"_id"`
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Author    *AuthorView `json:"author"`
	CreatedAt *string     `json:"createdAt"`
	UpdatedAt *string     `json:"updatedAt"`
}

// PostView is the client-facing shape of a post. Every field is always
// present; absent values are null and counters default to zero.
type PostView struct {
	LegacyID  string        `json:"_id"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	ImageURL  *string       `json:"imageUrl"`
	Author    *AuthorView   `json:"author"`
	CreatedAt *string       `json:"createdAt"`
	UpdatedAt *string       `json:"updatedAt"`
	Comments  []CommentView `json:"comments"`
	Category  *string       `json:"category"`
	Views     int64         `json:"views"`
	Likes     int64         `json:"likes"`
	Dislikes  int64         `json:"dislikes"`
}

// Projector turns a post and the profiles of its authors into a PostView.
// It does no I/O; profiles must already be resolved.
type Projector struct{}

func NewProjector() *Projector {
	return &Projector{}
}

// Project maps one post.
func (p *Projector) Project(post *domain.Post, profiles map[uuid.UUID]ports.PublicProfile) PostView {
	comments := make([]CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, CommentView{
			LegacyID:  c.ID.String(),
			ID:        c.ID.String(),
			Content:   c.Content,
			Author:    authorView(c.AuthorID, profiles),
			CreatedAt: formatTime(c.CreatedAt),
			UpdatedAt: formatTime(c.UpdatedAt),
		})
	}

	var image *string
	if post.ImageURL != nil {
		v := *post.ImageURL
		image = &v
	}

	var category *string
	if c := domain.NormalizeCategory(string(post.Category)); c != domain.CategoryNone {
		v := string(c)
		category = &v
	}

	return PostView{
		LegacyID:  post.ID.String(),
		ID:        post.ID.String(),
		Title:     post.Title,
		Body:      post.Body,
		ImageURL:  image,
		Author:    authorView(post.AuthorID, profiles),
		CreatedAt: formatTime(post.CreatedAt),
		UpdatedAt: formatTime(post.UpdatedAt),
		Comments:  comments,
		Category:  category,
		Views:     post.Views,
		Likes:     post.Likes,
		Dislikes:  post.Dislikes,
	}
}

// ProjectAll maps posts in order.
func (p *Projector) ProjectAll(posts []*domain.Post, profiles map[uuid.UUID]ports.PublicProfile) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, p.Project(post, profiles))
	}
	return views
}

func authorView(id uuid.UUID, profiles map[uuid.UUID]ports.PublicProfile) *AuthorView {
	profile, ok := profiles[id]
	if !ok {
		return nil
	}
	return &AuthorView{
		LegacyID: profile.ID.String(),
		ID:       profile.ID.String(),
		Username: profile.Username,
	}
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimeFormat)
	return &s
}
