package server

import (
	"context"

	"github.com/philly/memo-board/internal/platform/eventbus"
	"github.com/philly/memo-board/internal/platform/events"
	"github.com/philly/memo-board/internal/platform/logger"
)

var activityTopics = []eventbus.Topic{
	events.UserRegisteredTopic,
	events.PostCreatedTopic,
	events.PostUpdatedTopic,
	events.PostDeletedTopic,
	events.CommentAddedTopic,
	events.CommentEditedTopic,
	events.CommentRemovedTopic,
}

// provideEventBus creates the bus with the activity log attached
func provideEventBus(log logger.Logger) *eventbus.Bus {
	bus := eventbus.NewBus(log)
	for _, topic := range activityTopics {
		bus.Subscribe(topic, activityLogger(log))
	}
	return bus
}

func activityLogger(log logger.Logger) eventbus.Handler {
	return func(ctx context.Context, event eventbus.Event) error {
		args := append([]any{"topic", string(event.Topic)}, eventFields(event.Payload)...)
		log.Info(ctx, "activity", args...)
		return nil
	}
}

func eventFields(payload any) []any {
	switch e := payload.(type) {
	case events.UserRegisteredEvent:
		return []any{"user_id", e.UserID, "username", e.Username}
	case events.PostCreatedEvent:
		return []any{"post_id", e.PostID, "actor_id", e.ActorID}
	case events.PostUpdatedEvent:
		return []any{"post_id", e.PostID, "actor_id", e.ActorID, "fields", e.Fields}
	case events.PostDeletedEvent:
		return []any{"post_id", e.PostID, "actor_id", e.ActorID}
	case events.CommentEvent:
		return []any{"post_id", e.PostID, "comment_id", e.CommentID, "actor_id", e.ActorID}
	default:
		return nil
	}
}
