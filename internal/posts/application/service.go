package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/philly/memo-board/internal/platform/apperror"
	"github.com/philly/memo-board/internal/platform/eventbus"
	"github.com/philly/memo-board/internal/platform/events"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/platform/ownership"
	"github.com/philly/memo-board/internal/posts/domain"
	"github.com/philly/memo-board/internal/posts/ports"
)

// Error definitions for service operations
var (
	ErrPostNotFound    = apperror.NotFound(apperror.BusinessCodePostNotFound, "Post not found")
	ErrCommentNotFound = apperror.NotFound(apperror.BusinessCodeCommentNotFound, "Comment not found")
	ErrNotAuthorized   = apperror.Forbidden(apperror.BusinessCodeNotOwner, "Not authorized")
	ErrMissingFields   = apperror.Validation(apperror.BusinessCodeMissingFields, "Missing fields")
	ErrMissingContent  = apperror.Validation(apperror.BusinessCodeMissingFields, "Missing content")
)

// Config holds the values needed to configure the PostsService
type Config struct {
	// SanitizeHTML runs post bodies and comment content through the UGC policy
	SanitizeHTML bool
}

// PostsService handles post-related business logic
type PostsService struct {
	repo      ports.PostRepository
	resolver  ports.IdentityResolver
	projector *Projector
	gate      *ownership.Gate
	eventBus  *eventbus.Bus
	logger    logger.Logger
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewPostsService creates a new posts service
func NewPostsService(
	config Config,
	repo ports.PostRepository,
	resolver ports.IdentityResolver,
	projector *Projector,
	gate *ownership.Gate,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *PostsService {
	var sanitizer *bluemonday.Policy
	if config.SanitizeHTML {
		sanitizer = bluemonday.UGCPolicy()
	}

	return &PostsService{
		repo:      repo,
		resolver:  resolver,
		projector: projector,
		gate:      gate,
		eventBus:  eventBus,
		logger:    logger,
		sanitizer: sanitizer,
		now:       utcNow,
	}
}

// CreatePostParams contains parameters for creating a new post
type CreatePostParams struct {
	Title    string
	Body     string
	ImageURL *string
	Category string
}

// UpdatePostParams contains the scalar fields a caller sent. Absent fields are
// left alone; a field sent as null is present with an empty value.
type UpdatePostParams struct {
	Title    domain.OptionalString
	Body     domain.OptionalString
	ImageURL domain.OptionalString
	Category domain.OptionalString
}

// CreatePost creates a post authored by the acting identity
func (s *PostsService) CreatePost(ctx context.Context, actorID uuid.UUID, params CreatePostParams) (*PostView, error) {
	post, err := domain.NewPost(
		actorID,
		params.Title,
		s.sanitize(params.Body),
		params.ImageURL,
		params.Category,
		domain.Counters{},
		s.now(),
	)
	if err != nil {
		return nil, ErrMissingFields.WithDetails(err.Error())
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.persistenceError(ctx, "failed to create post", err, post.ID)
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			ActorID:    actorID,
			Title:      post.Title,
			OccurredAt: post.CreatedAt,
		},
	})

	return s.view(ctx, post)
}

// UpdatePost changes the present scalar fields of a post owned by the actor.
// When nothing applicable was sent the post is returned untouched and
// nothing is written.
func (s *PostsService) UpdatePost(ctx context.Context, actorID, id uuid.UUID, params UpdatePostParams) (*PostView, error) {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, post); err != nil {
		return nil, err
	}

	if params.Body.Present {
		params.Body.Value = s.sanitize(params.Body.Value)
	}
	changes := post.ApplyUpdate(domain.PostUpdate{
		Title:    params.Title,
		Body:     params.Body,
		ImageURL: params.ImageURL,
		Category: params.Category,
	})
	if changes.IsEmpty() {
		return s.view(ctx, post)
	}

	now := s.now()
	ok, err := s.repo.ApplyScalarUpdate(ctx, id, changes, now)
	if err != nil {
		return nil, s.persistenceError(ctx, "failed to update post", err, id)
	}
	if !ok {
		return nil, ErrPostNotFound
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostUpdatedTopic,
		Payload: events.PostUpdatedEvent{
			PostID:     id,
			ActorID:    actorID,
			Fields:     changes.Fields(),
			OccurredAt: now,
		},
	})

	return s.reload(ctx, id)
}

// AddComment appends a comment by the actor to any existing post
func (s *PostsService) AddComment(ctx context.Context, actorID, postID uuid.UUID, content string) (*PostView, error) {
	comment, err := domain.NewComment(actorID, s.sanitize(content), s.now())
	if err != nil {
		return nil, ErrMissingContent
	}

	ok, err := s.repo.AppendComment(ctx, postID, comment, comment.CreatedAt)
	if err != nil {
		return nil, s.persistenceError(ctx, "failed to add comment", err, postID)
	}
	if !ok {
		return nil, ErrPostNotFound
	}

	s.publishCommentEvent(ctx, events.CommentAddedTopic, postID, comment.ID, actorID, comment.CreatedAt)
	return s.reload(ctx, postID)
}

// EditComment replaces the content of a comment owned by the actor
func (s *PostsService) EditComment(ctx context.Context, actorID, postID, commentID uuid.UUID, content string) (*PostView, error) {
	content, err := domain.ValidateCommentContent(s.sanitize(content))
	if err != nil {
		return nil, ErrMissingContent
	}

	post, err := s.getPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, err := post.FindComment(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	if err := s.authorize(ctx, actorID, comment); err != nil {
		return nil, err
	}

	now := s.now()
	ok, err := s.repo.UpdateCommentContent(ctx, postID, commentID, content, now)
	if err != nil {
		return nil, s.persistenceError(ctx, "failed to edit comment", err, postID)
	}
	if !ok {
		return nil, s.vanished(ctx, postID)
	}

	s.publishCommentEvent(ctx, events.CommentEditedTopic, postID, commentID, actorID, now)
	return s.reload(ctx, postID)
}

// RemoveComment deletes a comment owned by the actor
func (s *PostsService) RemoveComment(ctx context.Context, actorID, postID, commentID uuid.UUID) (*PostView, error) {
	post, err := s.getPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment, err := post.FindComment(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	if err := s.authorize(ctx, actorID, comment); err != nil {
		return nil, err
	}

	now := s.now()
	ok, err := s.repo.RemoveComment(ctx, postID, commentID, now)
	if err != nil {
		return nil, s.persistenceError(ctx, "failed to remove comment", err, postID)
	}
	if !ok {
		return nil, s.vanished(ctx, postID)
	}

	s.publishCommentEvent(ctx, events.CommentRemovedTopic, postID, commentID, actorID, now)
	return s.reload(ctx, postID)
}

// IncrementViews counts one view. It needs no identity.
func (s *PostsService) IncrementViews(ctx context.Context, postID uuid.UUID) (*PostView, error) {
	post, err := s.repo.IncrementViews(ctx, postID, s.now())
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.persistenceError(ctx, "failed to increment views", err, postID)
	}
	return s.view(ctx, post)
}

// DeletePost removes a post owned by the actor together with its comments
func (s *PostsService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	post, err := s.getPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, post); err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, postID)
	if err != nil {
		return s.persistenceError(ctx, "failed to delete post", err, postID)
	}
	if !ok {
		return ErrPostNotFound
	}

	// Publish event so other modules can clean up
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostDeletedTopic,
		Payload: events.PostDeletedEvent{
			PostID:     postID,
			ActorID:    actorID,
			OccurredAt: s.now(),
		},
	})
	return nil
}

// GetPost returns one projected post
func (s *PostsService) GetPost(ctx context.Context, postID uuid.UUID) (*PostView, error) {
	post, err := s.getPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// ListPosts returns every post, newest first. Authors of all posts are
// resolved in one batch.
func (s *PostsService) ListPosts(ctx context.Context) ([]PostView, error) {
	posts, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list posts", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}

	var ids []uuid.UUID
	for _, p := range posts {
		ids = append(ids, p.AuthorIDs()...)
	}
	profiles, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		s.logger.Error(ctx, "failed to resolve authors", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}

	return s.projector.ProjectAll(posts, profiles), nil
}

// Helper methods

func (s *PostsService) getPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.persistenceError(ctx, "failed to find post", err, id)
	}
	return post, nil
}

// authorize turns a failed ownership check into the 403 the caller sees
func (s *PostsService) authorize(ctx context.Context, actorID uuid.UUID, resource ownership.Owned) error {
	if err := s.gate.Check(actorID, resource); err != nil {
		s.logger.Debug(ctx, "mutation rejected", "actorID", actorID, "error", err)
		return ErrNotAuthorized
	}
	return nil
}

// reload reads the post back after a write so the caller sees the stored state.
func (s *PostsService) reload(ctx context.Context, id uuid.UUID) (*PostView, error) {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// vanished explains a comment write that matched nothing: either the post or
// the comment was deleted after it was loaded.
func (s *PostsService) vanished(ctx context.Context, postID uuid.UUID) error {
	if _, err := s.getPostByID(ctx, postID); err != nil {
		return err
	}
	return ErrCommentNotFound
}

func (s *PostsService) view(ctx context.Context, post *domain.Post) (*PostView, error) {
	profiles, err := s.resolver.Resolve(ctx, post.AuthorIDs())
	if err != nil {
		s.logger.Error(ctx, "failed to resolve authors", "error", err, "postID", post.ID)
		return nil, apperror.Internal(err, "Server error")
	}
	v := s.projector.Project(post, profiles)
	return &v, nil
}

func (s *PostsService) sanitize(html string) string {
	if s.sanitizer == nil {
		return html
	}
	return s.sanitizer.Sanitize(html)
}

func (s *PostsService) persistenceError(ctx context.Context, msg string, err error, postID uuid.UUID) error {
	s.logger.Error(ctx, msg, "error", err, "postID", postID)
	return apperror.Internal(err, "Server error")
}

func (s *PostsService) publishCommentEvent(ctx context.Context, topic eventbus.Topic, postID, commentID, actorID uuid.UUID, at time.Time) {
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: topic,
		Payload: events.CommentEvent{
			PostID:     postID,
			CommentID:  commentID,
			ActorID:    actorID,
			OccurredAt: at,
		},
	})
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
