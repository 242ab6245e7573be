package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/philly/memo-board/internal/platform/postgres"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeComments(t *testing.T) {
	t.Run("empty column", func(t *testing.T) {
		comments, err := decodeComments(nil)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("keeps array order", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()
		author := uuid.New()
		raw := `[
			{"id":"` + first.String() + `","authorId":"` + author.String() + `","content":"a","createdAt":"2025-01-02T03:04:05.006Z","updatedAt":"2025-01-02T03:04:05.006Z"},
			{"id":"` + second.String() + `","authorId":"` + author.String() + `","content":"b","createdAt":"2025-01-02T03:04:05Z","updatedAt":"2025-01-02T04:00:00Z"}
		]`

		comments, err := decodeComments([]byte(raw))
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, first, comments[0].ID)
		assert.Equal(t, second, comments[1].ID)
		assert.Equal(t, time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC), comments[1].UpdatedAt)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		_, err := decodeComments([]byte(`[{"id":"nope","authorId":"nope","content":"x"}]`))
		assert.Error(t, err)
	})
}

func TestCategoryValue(t *testing.T) {
	assert.Nil(t, categoryValue(domain.CategoryNone))
	require.NotNil(t, categoryValue(domain.CategoryDev))
	assert.Equal(t, "dev", *categoryValue(domain.CategoryDev))
}

var updatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newBuilderRepo() *PostRepository {
	return &PostRepository{BaseRepository: postgres.NewBaseRepository(nil)}
}

// Arguments are bound by position, so each statement pins its placeholders
// to the value they must receive.
func TestCommentStatements(t *testing.T) {
	repo := newBuilderRepo()
	postID, commentID := uuid.New(), uuid.New()
	stamp := pgtype.Timestamptz{Time: updatedAt, Valid: true}
	hasComment := "WHERE id = $3 AND comments @> jsonb_build_array(jsonb_build_object('id', $4::text))"

	t.Run("remove", func(t *testing.T) {
		query, args, err := repo.removeCommentUpdate(postID, commentID, updatedAt).ToSql()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(query, "UPDATE posts SET comments = COALESCE(("), query)
		assert.Contains(t, query, "WHERE elem->>'id' <> $1")
		assert.Contains(t, query, "jsonb_agg(elem ORDER BY ord)")
		assert.Contains(t, query, "), '[]'::jsonb), updated_at = $2 ")
		assert.True(t, strings.HasSuffix(query, hasComment), query)

		require.Len(t, args, 4)
		assert.Equal(t, commentID.String(), args[0])
		assert.Equal(t, stamp, args[1])
		assert.Equal(t, commentID.String(), args[3])
	})

	t.Run("edit content", func(t *testing.T) {
		query, args, err := repo.commentContentUpdate(postID, commentID, "changed", updatedAt).ToSql()
		require.NoError(t, err)

		assert.Contains(t, query, "CASE WHEN elem->>'id' = $1")
		assert.Contains(t, query, "jsonb_build_object('content', $2::text, 'updatedAt', $3::text)")
		assert.Contains(t, query, "ELSE elem")
		assert.Contains(t, query, "updated_at = $4 ")
		assert.True(t, strings.HasSuffix(query, "WHERE id = $5 AND comments @> jsonb_build_array(jsonb_build_object('id', $6::text))"), query)

		require.Len(t, args, 6)
		assert.Equal(t, commentID.String(), args[0])
		assert.Equal(t, "changed", args[1])
		assert.Equal(t, "2025-03-01T12:00:00Z", args[2])
		assert.Equal(t, stamp, args[3])
		assert.Equal(t, commentID.String(), args[5])
	})

	t.Run("append", func(t *testing.T) {
		element := []byte(`{"id":"` + commentID.String() + `"}`)
		query, args, err := repo.appendCommentUpdate(postID, element, updatedAt).ToSql()
		require.NoError(t, err)

		assert.Equal(t, "UPDATE posts SET comments = comments || jsonb_build_array($1::jsonb), updated_at = $2 WHERE id = $3", query)
		require.Len(t, args, 3)
		assert.Equal(t, string(element), args[0])
		assert.Equal(t, stamp, args[1])
	})
}

func TestIncrementViewsStatement(t *testing.T) {
	query, args, err := newBuilderRepo().incrementViewsUpdate(uuid.New(), updatedAt).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE posts SET views = views + 1, updated_at = $1 WHERE id = $2 RETURNING "+strings.Join(postColumns, ", "),
		query)
	require.Len(t, args, 2)
	assert.Equal(t, pgtype.Timestamptz{Time: updatedAt, Valid: true}, args[0])
}

func TestScalarUpdateStatement(t *testing.T) {
	title := "New"
	image := "https://example.com/a.png"

	tests := []struct {
		name      string
		changes   domain.ScalarChanges
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "title and category",
			changes:   domain.ScalarChanges{Title: &title, SetCategory: true, Category: domain.CategoryDev},
			wantQuery: "UPDATE posts SET updated_at = $1, title = $2, category = $3 WHERE id = $4",
			wantArgs:  []any{"New", categoryValue(domain.CategoryDev)},
		},
		{
			name:      "cleared image and category",
			changes:   domain.ScalarChanges{SetImageURL: true, SetCategory: true},
			wantQuery: "UPDATE posts SET updated_at = $1, image_url = $2, category = $3 WHERE id = $4",
			wantArgs:  []any{(*string)(nil), (*string)(nil)},
		},
		{
			name:      "image only",
			changes:   domain.ScalarChanges{SetImageURL: true, ImageURL: &image},
			wantQuery: "UPDATE posts SET updated_at = $1, image_url = $2 WHERE id = $3",
			wantArgs:  []any{&image},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := newBuilderRepo().scalarUpdate(uuid.New(), tt.changes, updatedAt).ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantQuery, query)
			require.Len(t, args, len(tt.wantArgs)+2)
			assert.Equal(t, pgtype.Timestamptz{Time: updatedAt, Valid: true}, args[0])
			assert.Equal(t, tt.wantArgs, args[1:len(args)-1])
		})
	}
}
