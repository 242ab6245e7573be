package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/memo-board/internal/platform/postgres"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
)

var postColumns = []string{
	"id", "author_id", "title", "body", "image_url", "category", "comments",
	"views", "likes", "dislikes", "created_at", "updated_at",
}

// Comment element updates rebuild the array in original order. Postgres
// takes a row lock for the UPDATE, so concurrent statements on the same post
// apply one after another and never lose each other's changes.
const (
	pullCommentExpr = `COALESCE((
		SELECT jsonb_agg(elem ORDER BY ord)
		FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(elem, ord)
		WHERE elem->>'id' <> ?
	), '[]'::jsonb)`

	setCommentContentExpr = `(
		SELECT jsonb_agg(
			CASE WHEN elem->>'id' = ?
				THEN elem || jsonb_build_object('content', ?::text, 'updatedAt', ?::text)
				ELSE elem
			END ORDER BY ord)
		FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(elem, ord)
	)`

	hasCommentExpr = `comments @> jsonb_build_array(jsonb_build_object('id', ?::text))`
)

// commentRecord is the JSON shape of an embedded comment
type commentRecord struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostRepository implements the posts.PostRepository interface using PostgreSQL
type PostRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewPostRepository creates a new PostgreSQL posts repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	comments, err := encodeComments(post.Comments)
	if err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}

	query, args, err := r.SB.
		Insert("posts").
		Columns(postColumns...).
		Values(
			pgtype.UUID{Bytes: post.ID, Valid: true},
			pgtype.UUID{Bytes: post.AuthorID, Valid: true},
			post.Title,
			post.Body,
			post.ImageURL,
			categoryValue(post.Category),
			comments,
			post.Views,
			post.Likes,
			post.Dislikes,
			pgtype.Timestamptz{Time: post.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: post.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Create: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}

	return nil
}

// FindByID retrieves a post with its comments
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		From("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: build query: %w", err)
	}

	post, err := scanPost(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}

	return post, nil
}

// ListNewestFirst retrieves every post ordered by creation time descending
func (r *PostRepository) ListNewestFirst(ctx context.Context) ([]*domain.Post, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		From("posts").
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListNewestFirst: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListNewestFirst: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("PostRepository.ListNewestFirst: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepository.ListNewestFirst: rows: %w", err)
	}

	return posts, nil
}

// ApplyScalarUpdate sets only the changed columns
func (r *PostRepository) ApplyScalarUpdate(ctx context.Context, id uuid.UUID, changes domain.ScalarChanges, updatedAt time.Time) (bool, error) {
	query, args, err := r.scalarUpdate(id, changes, updatedAt).ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.ApplyScalarUpdate: build query: %w", err)
	}

	return r.execMatched(ctx, "ApplyScalarUpdate", query, args)
}

func (r *PostRepository) scalarUpdate(id uuid.UUID, changes domain.ScalarChanges, updatedAt time.Time) sq.UpdateBuilder {
	qb := r.SB.Update("posts").
		Set("updated_at", pgtype.Timestamptz{Time: updatedAt, Valid: true})

	if changes.Title != nil {
		qb = qb.Set("title", *changes.Title)
	}
	if changes.Body != nil {
		qb = qb.Set("body", *changes.Body)
	}
	if changes.SetImageURL {
		qb = qb.Set("image_url", changes.ImageURL)
	}
	if changes.SetCategory {
		qb = qb.Set("category", categoryValue(changes.Category))
	}

	return qb.Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}})
}

// AppendComment pushes a comment onto the end of the embedded array
func (r *PostRepository) AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment, updatedAt time.Time) (bool, error) {
	element, err := json.Marshal(toCommentRecord(comment))
	if err != nil {
		return false, fmt.Errorf("PostRepository.AppendComment: encode comment: %w", err)
	}

	query, args, err := r.appendCommentUpdate(id, element, updatedAt).ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.AppendComment: build query: %w", err)
	}

	return r.execMatched(ctx, "AppendComment", query, args)
}

func (r *PostRepository) appendCommentUpdate(id uuid.UUID, element []byte, updatedAt time.Time) sq.UpdateBuilder {
	return r.SB.
		Update("posts").
		Set("comments", sq.Expr("comments || jsonb_build_array(?::jsonb)", string(element))).
		Set("updated_at", pgtype.Timestamptz{Time: updatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}})
}

// RemoveComment pulls one comment by identifier
func (r *PostRepository) RemoveComment(ctx context.Context, id, commentID uuid.UUID, updatedAt time.Time) (bool, error) {
	query, args, err := r.removeCommentUpdate(id, commentID, updatedAt).ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.RemoveComment: build query: %w", err)
	}

	return r.execMatched(ctx, "RemoveComment", query, args)
}

// removeCommentUpdate matches only when the comment is still there, so a
// concurrent removal reports no match
func (r *PostRepository) removeCommentUpdate(id, commentID uuid.UUID, updatedAt time.Time) sq.UpdateBuilder {
	return r.SB.
		Update("posts").
		Set("comments", sq.Expr(pullCommentExpr, commentID.String())).
		Set("updated_at", pgtype.Timestamptz{Time: updatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		Where(sq.Expr(hasCommentExpr, commentID.String()))
}

// UpdateCommentContent rewrites one comment's content in place
func (r *PostRepository) UpdateCommentContent(ctx context.Context, id, commentID uuid.UUID, content string, updatedAt time.Time) (bool, error) {
	query, args, err := r.commentContentUpdate(id, commentID, content, updatedAt).ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.UpdateCommentContent: build query: %w", err)
	}

	return r.execMatched(ctx, "UpdateCommentContent", query, args)
}

func (r *PostRepository) commentContentUpdate(id, commentID uuid.UUID, content string, updatedAt time.Time) sq.UpdateBuilder {
	return r.SB.
		Update("posts").
		Set("comments", sq.Expr(setCommentContentExpr, commentID.String(), content, updatedAt.UTC().Format(time.RFC3339Nano))).
		Set("updated_at", pgtype.Timestamptz{Time: updatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		Where(sq.Expr(hasCommentExpr, commentID.String()))
}

// IncrementViews adds one view and returns the updated row
func (r *PostRepository) IncrementViews(ctx context.Context, id uuid.UUID, updatedAt time.Time) (*domain.Post, error) {
	query, args, err := r.incrementViewsUpdate(id, updatedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.IncrementViews: build query: %w", err)
	}

	post, err := scanPost(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.IncrementViews: %w", err)
	}

	return post, nil
}

func (r *PostRepository) incrementViewsUpdate(id uuid.UUID, updatedAt time.Time) sq.UpdateBuilder {
	return r.SB.
		Update("posts").
		Set("views", sq.Expr("views + 1")).
		Set("updated_at", pgtype.Timestamptz{Time: updatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		Suffix("RETURNING " + strings.Join(postColumns, ", "))
}

// Delete removes a post; its comments go with the row
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := r.SB.
		Delete("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.Delete: build query: %w", err)
	}

	return r.execMatched(ctx, "Delete", query, args)
}

func (r *PostRepository) execMatched(ctx context.Context, op, query string, args []any) (bool, error) {
	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("PostRepository.%s: %w", op, err)
	}
	return result.RowsAffected() > 0, nil
}

// Helper functions

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var idBytes, authorIDBytes pgtype.UUID
	var category pgtype.Text
	var comments []byte

	err := row.Scan(
		&idBytes,
		&authorIDBytes,
		&post.Title,
		&post.Body,
		&post.ImageURL,
		&category,
		&comments,
		&post.Views,
		&post.Likes,
		&post.Dislikes,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert pgtype values
	post.ID = uuid.UUID(idBytes.Bytes)
	post.AuthorID = uuid.UUID(authorIDBytes.Bytes)
	if category.Valid {
		post.Category = domain.NormalizeCategory(category.String)
	}

	post.Comments, err = decodeComments(comments)
	if err != nil {
		return nil, fmt.Errorf("scanPost: %w", err)
	}

	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return &post, nil
}

func toCommentRecord(c domain.Comment) commentRecord {
	return commentRecord{
		ID:        c.ID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func encodeComments(comments []domain.Comment) (string, error) {
	records := make([]commentRecord, 0, len(comments))
	for _, c := range comments {
		records = append(records, toCommentRecord(c))
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode comments: %w", err)
	}
	return string(raw), nil
}

func decodeComments(raw []byte) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	if len(raw) == 0 {
		return comments, nil
	}

	var records []commentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	for _, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("decode comments: id %q: %w", rec.ID, err)
		}
		authorID, err := uuid.Parse(rec.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("decode comments: author %q: %w", rec.AuthorID, err)
		}
		comments = append(comments, domain.Comment{
			ID:        id,
			AuthorID:  authorID,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt.UTC(),
			UpdatedAt: rec.UpdatedAt.UTC(),
		})
	}
	return comments, nil
}

func categoryValue(c domain.Category) *string {
	if c == domain.CategoryNone {
		return nil
	}
	s := string(c)
	return &s
}

var _ ports.PostRepository = (*PostRepository)(nil)
