package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/platform/eventbus"
)

// UserRegisteredTopic is published once a new account is stored.
const UserRegisteredTopic eventbus.Topic = "users.registered"

// UserRegisteredEvent carries only public data; the credential hash never
// leaves the users module.
type UserRegisteredEvent struct {
	UserID     uuid.UUID
	Username   string
	OccurredAt time.Time
}
