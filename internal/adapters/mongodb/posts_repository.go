package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository implements the posts.PostRepository interface on a MongoDB
// collection. Every mutation is one update on one document, so comment
// edits use the array operators and never rewrite the whole list.
type PostRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a new MongoDB posts repository
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		coll: db.Collection(PostsCollection),
	}
}

// Create inserts a new post document
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if _, err := r.coll.InsertOne(ctx, toPostDocument(post)); err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a post with its comments
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var doc postDocument
	err := r.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}

	post, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}
	return post, nil
}

// ListNewestFirst returns every post ordered by creation time, newest first
func (r *PostRepository) ListNewestFirst(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListNewestFirst: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("PostRepository.ListNewestFirst: decode: %w", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("PostRepository.ListNewestFirst: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ApplyScalarUpdate sets only the fields present in changes
func (r *PostRepository) ApplyScalarUpdate(ctx context.Context, id uuid.UUID, changes domain.ScalarChanges, updatedAt time.Time) (bool, error) {
	return r.updateOne(ctx, "ApplyScalarUpdate", byID(id), bson.D{{Key: "$set", Value: scalarSet(changes, updatedAt)}})
}

// AppendComment pushes a comment onto the end of the list
func (r *PostRepository) AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment, updatedAt time.Time) (bool, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: toCommentDocument(comment)}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}
	return r.updateOne(ctx, "AppendComment", byID(id), update)
}

// RemoveComment pulls one comment; the remaining ones keep their order
func (r *PostRepository) RemoveComment(ctx context.Context, id, commentID uuid.UUID, updatedAt time.Time) (bool, error) {
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{{Key: "_id", Value: commentID.String()}}}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}
	return r.updateOne(ctx, "RemoveComment", byComment(id, commentID), update)
}

// UpdateCommentContent rewrites the matched comment through the positional operator
func (r *PostRepository) UpdateCommentContent(ctx context.Context, id, commentID uuid.UUID, content string, updatedAt time.Time) (bool, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "comments.$.content", Value: content},
		{Key: "comments.$.updated_at", Value: updatedAt},
		{Key: "updated_at", Value: updatedAt},
	}}}
	return r.updateOne(ctx, "UpdateCommentContent", byComment(id, commentID), update)
}

// IncrementViews adds one view and returns the post as stored afterwards
func (r *PostRepository) IncrementViews(ctx context.Context, id uuid.UUID, updatedAt time.Time) (*domain.Post, error) {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err := r.coll.FindOneAndUpdate(ctx, byID(id), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.IncrementViews: %w", err)
	}

	post, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.IncrementViews: %w", err)
	}
	return post, nil
}

// Delete removes the post document and with it every comment
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, fmt.Errorf("PostRepository.Delete: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *PostRepository) updateOne(ctx context.Context, op string, filter, update bson.D) (bool, error) {
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("PostRepository.%s: %w", op, err)
	}
	return result.MatchedCount > 0, nil
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

func byComment(id, commentID uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "comments._id", Value: commentID.String()},
	}
}

func scalarSet(changes domain.ScalarChanges, updatedAt time.Time) bson.D {
	set := bson.D{}
	if changes.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *changes.Title})
	}
	if changes.Body != nil {
		set = append(set, bson.E{Key: "body", Value: *changes.Body})
	}
	if changes.SetImageURL {
		set = append(set, bson.E{Key: "imageUrl", Value: changes.ImageURL})
	}
	if changes.SetCategory {
		set = append(set, bson.E{Key: "category", Value: categoryValue(changes.Category)})
	}
	return append(set, bson.E{Key: "updated_at", Value: updatedAt})
}

// Compile-time check to ensure we implement the interface
var _ ports.PostRepository = (*PostRepository)(nil)
