package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var t0 = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestScalarSet(t *testing.T) {
	title := "New"

	tests := []struct {
		name    string
		changes domain.ScalarChanges
		want    bson.D
	}{
		{
			name:    "only the timestamp when nothing changed",
			changes: domain.ScalarChanges{},
			want:    bson.D{{Key: "updated_at", Value: t0}},
		},
		{
			name:    "title only",
			changes: domain.ScalarChanges{Title: &title},
			want:    bson.D{{Key: "title", Value: "New"}, {Key: "updated_at", Value: t0}},
		},
		{
			name:    "cleared image and category are stored as null",
			changes: domain.ScalarChanges{SetImageURL: true, SetCategory: true, Category: domain.CategoryNone},
			want: bson.D{
				{Key: "imageUrl", Value: (*string)(nil)},
				{Key: "category", Value: (*string)(nil)},
				{Key: "updated_at", Value: t0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scalarSet(tt.changes, t0))
		})
	}
}

func TestPostDocument_ToDomain(t *testing.T) {
	author := uuid.New()
	commentID := uuid.New()
	unknown := "music"

	doc := postDocument{
		ID:       uuid.NewString(),
		AuthorID: author.String(),
		Title:    "t",
		Body:     "b",
		Category: &unknown,
		Comments: []commentDocument{
			{ID: commentID.String(), AuthorID: "not-a-uuid", Content: "hi", CreatedAt: t0, UpdatedAt: t0},
		},
		CreatedAt: t0,
		UpdatedAt: t0,
	}

	post, err := doc.toDomain()
	require.NoError(t, err)

	assert.Equal(t, author, post.AuthorID)
	assert.Equal(t, domain.CategoryNone, post.Category)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, commentID, post.Comments[0].ID)
	assert.Equal(t, uuid.Nil, post.Comments[0].AuthorID)
}

func TestPostDocument_NilCommentsBecomeEmpty(t *testing.T) {
	doc := postDocument{ID: uuid.NewString(), AuthorID: uuid.NewString(), CreatedAt: t0, UpdatedAt: t0}

	post, err := doc.toDomain()
	require.NoError(t, err)
	assert.NotNil(t, post.Comments)
	assert.Empty(t, post.Comments)
}

func TestPostDocument_RejectsBadID(t *testing.T) {
	_, err := postDocument{ID: "abc", AuthorID: uuid.NewString()}.toDomain()
	assert.Error(t, err)
}
