package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	postsDomain "github.com/philly/memo-board/internal/posts/domain"
	usersDomain "github.com/philly/memo-board/internal/users/domain"
)

// Collection names
const (
	PostsCollection = "posts"
	UsersCollection = "users"
)

// Identifiers are stored as canonical UUID strings. Field names follow the
// documents the web client has always been served from.
type postDocument struct {
	ID        string            `bson:"_id"`
	AuthorID  string            `bson:"author"`
	Title     string            `bson:"title"`
	Body      string            `bson:"body"`
	ImageURL  *string           `bson:"imageUrl"`
	Category  *string           `bson:"category"`
	Comments  []commentDocument `bson:"comments"`
	Views     int64             `bson:"views"`
	Likes     int64             `bson:"likes"`
	Dislikes  int64             `bson:"dislikes"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toPostDocument(p *postsDomain.Post) postDocument {
	comments := make([]commentDocument, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toCommentDocument(c))
	}

	return postDocument{
		ID:        p.ID.String(),
		AuthorID:  p.AuthorID.String(),
		Title:     p.Title,
		Body:      p.Body,
		ImageURL:  p.ImageURL,
		Category:  categoryValue(p.Category),
		Comments:  comments,
		Views:     p.Views,
		Likes:     p.Likes,
		Dislikes:  p.Dislikes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentDocument(c postsDomain.Comment) commentDocument {
	return commentDocument{
		ID:        c.ID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d postDocument) toDomain() (*postsDomain.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode post id %q: %w", d.ID, err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("decode post %s author: %w", d.ID, err)
	}

	comments := make([]postsDomain.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comment, err := c.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode post %s: %w", d.ID, err)
		}
		comments = append(comments, comment)
	}

	var category postsDomain.Category
	if d.Category != nil {
		category = postsDomain.NormalizeCategory(*d.Category)
	}

	return &postsDomain.Post{
		ID:        id,
		AuthorID:  authorID,
		Title:     d.Title,
		Body:      d.Body,
		ImageURL:  d.ImageURL,
		Category:  category,
		Comments:  comments,
		Views:     d.Views,
		Likes:     d.Likes,
		Dislikes:  d.Dislikes,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func (d commentDocument) toDomain() (postsDomain.Comment, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return postsDomain.Comment{}, fmt.Errorf("decode comment id %q: %w", d.ID, err)
	}
	// A comment whose author reference is unreadable keeps a nil author and
	// renders without one.
	authorID, _ := uuid.Parse(d.AuthorID)

	return postsDomain.Comment{
		ID:        id,
		AuthorID:  authorID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func toUserDocument(u *usersDomain.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() (*usersDomain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", d.ID, err)
	}
	return &usersDomain.User{
		ID:           id,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func categoryValue(c postsDomain.Category) *string {
	if c == postsDomain.CategoryNone {
		return nil
	}
	s := string(c)
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
