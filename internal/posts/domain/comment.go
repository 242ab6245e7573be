package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment lives only inside its parent Post and is always addressed
// through (postID, commentID).
type Comment struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment validates content and stamps a fresh identifier.
func NewComment(authorID uuid.UUID, content string, at time.Time) (Comment, error) {
	content, err := ValidateCommentContent(content)
	if err != nil {
		return Comment{}, err
	}
	if authorID == uuid.Nil {
		return Comment{}, ErrInvalidAuthorID
	}

	return Comment{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
	}, nil
}

// GetAuthorID returns the comment author ID
// Implements ownership.Owned
func (c Comment) GetAuthorID() uuid.UUID {
	return c.AuthorID
}

// ValidateCommentContent trims content and rejects it when nothing is left.
func ValidateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}
