package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post is the aggregate root. Comments are embedded and never exist on their own.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Body      string
	ImageURL  *string
	Category  Category
	Comments  []Comment
	Views     int64
	Likes     int64
	Dislikes  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validation errors
var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyBody       = errors.New("body is required")
	ErrEmptyContent    = errors.New("content is required")
	ErrInvalidAuthorID = errors.New("author ID is required")
	ErrCommentNotFound = errors.New("comment not found")
)

// Counters are the optional initial engagement numbers accepted on creation.
type Counters struct {
	Views    int64
	Likes    int64
	Dislikes int64
}

// OptionalString distinguishes an absent field from one sent as null or "".
// A null value is Present with an empty Value.
type OptionalString struct {
	Value   string
	Present bool
}

// Some returns a present OptionalString holding v.
func Some(v string) OptionalString {
	return OptionalString{Value: v, Present: true}
}

// PostUpdate carries the subset of scalar fields a caller asked to change.
type PostUpdate struct {
	Title    OptionalString
	Body     OptionalString
	ImageURL OptionalString
	Category OptionalString
}

// ScalarChanges records what ApplyUpdate actually changed, in a form a
// repository can persist without rewriting the whole document.
type ScalarChanges struct {
	Title       *string
	Body        *string
	SetImageURL bool
	ImageURL    *string // nil clears the image
	SetCategory bool
	Category    Category
}

// IsEmpty reports whether no field was changed.
func (c ScalarChanges) IsEmpty() bool {
	return c.Title == nil && c.Body == nil && !c.SetImageURL && !c.SetCategory
}

// Fields returns the wire names of the changed fields.
func (c ScalarChanges) Fields() []string {
	var fields []string
	if c.Title != nil {
		fields = append(fields, "title")
	}
	if c.Body != nil {
		fields = append(fields, "body")
	}
	if c.SetImageURL {
		fields = append(fields, "imageUrl")
	}
	if c.SetCategory {
		fields = append(fields, "category")
	}
	return fields
}

// NewPost creates a new post with validation
func NewPost(
	authorID uuid.UUID,
	title, body string,
	imageURL *string,
	category string,
	counters Counters,
	at time.Time,
) (*Post, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if body == "" {
		return nil, ErrEmptyBody
	}
	if authorID == uuid.Nil {
		return nil, ErrInvalidAuthorID
	}

	return &Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		ImageURL:  normalizeImageURL(imageURL),
		Category:  NormalizeCategory(category),
		Comments:  []Comment{},
		Views:     nonNegative(counters.Views),
		Likes:     nonNegative(counters.Likes),
		Dislikes:  nonNegative(counters.Dislikes),
		CreatedAt: at,
		UpdatedAt: at,
	}, nil
}

// ApplyUpdate applies the present fields of u.
//
// Title and body are only replaced by a non-empty trimmed value; an empty one
// is ignored. Image URL and category are always applied when present, so an
// empty or null value clears them. UpdatedAt is left alone; callers Touch the
// post when the returned changes are not empty.
func (p *Post) ApplyUpdate(u PostUpdate) ScalarChanges {
	var changes ScalarChanges

	if u.Title.Present {
		if title := strings.TrimSpace(u.Title.Value); title != "" {
			p.Title = title
			changes.Title = &title
		}
	}
	if u.Body.Present {
		if body := strings.TrimSpace(u.Body.Value); body != "" {
			p.Body = body
			changes.Body = &body
		}
	}
	if u.ImageURL.Present {
		var image *string
		if u.ImageURL.Value != "" {
			v := u.ImageURL.Value
			image = &v
		}
		p.ImageURL = image
		changes.SetImageURL = true
		changes.ImageURL = image
	}
	if u.Category.Present {
		p.Category = NormalizeCategory(u.Category.Value)
		changes.SetCategory = true
		changes.Category = p.Category
	}

	return changes
}

// Touch advances the modification timestamp.
func (p *Post) Touch(at time.Time) {
	p.UpdatedAt = at
}

// FindComment returns the comment with the given ID.
func (p *Post) FindComment(id uuid.UUID) (*Comment, error) {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

// AddComment appends c and touches the post.
func (p *Post) AddComment(c Comment, at time.Time) {
	p.Comments = append(p.Comments, c)
	p.Touch(at)
}

// EditComment replaces the content of one comment, leaving its siblings alone.
func (p *Post) EditComment(id uuid.UUID, content string, at time.Time) (*Comment, error) {
	content, err := ValidateCommentContent(content)
	if err != nil {
		return nil, err
	}
	c, err := p.FindComment(id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = at
	p.Touch(at)
	return c, nil
}

// RemoveComment drops one comment. The remaining comments keep their order.
func (p *Post) RemoveComment(id uuid.UUID, at time.Time) error {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			p.Touch(at)
			return nil
		}
	}
	return ErrCommentNotFound
}

// GetID returns the post ID
func (p *Post) GetID() uuid.UUID {
	return p.ID
}

// GetAuthorID returns the post author ID
// Implements ownership.Owned
func (p *Post) GetAuthorID() uuid.UUID {
	return p.AuthorID
}

// AuthorIDs returns the distinct author IDs of the post and its comments,
// post author first.
func (p *Post) AuthorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.Comments)+1)
	ids := make([]uuid.UUID, 0, len(p.Comments)+1)
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(p.AuthorID)
	for _, c := range p.Comments {
		add(c.AuthorID)
	}
	return ids
}

func normalizeImageURL(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
