package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/platform/eventbus"
)

// Event topics for posts
const (
	PostCreatedTopic    eventbus.Topic = "posts.created"
	PostUpdatedTopic    eventbus.Topic = "posts.updated"
	PostDeletedTopic    eventbus.Topic = "posts.deleted"
	CommentAddedTopic   eventbus.Topic = "posts.comment_added"
	CommentEditedTopic  eventbus.Topic = "posts.comment_edited"
	CommentRemovedTopic eventbus.Topic = "posts.comment_removed"
)

// PostCreatedEvent is published when a new post is created
type PostCreatedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	Title      string
	OccurredAt time.Time
}

// PostUpdatedEvent is published when scalar fields of a post changed
type PostUpdatedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	Fields     []string
	OccurredAt time.Time
}

// PostDeletedEvent is published when a post and its comments are gone
type PostDeletedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// CommentEvent is the payload of every comment topic.
type CommentEvent struct {
	PostID     uuid.UUID
	CommentID  uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}
