package service

import (
	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
)

// Subscription is one live listener attached to the hub. Events arrive on C
// until Close is called; Close synchronously deregisters the listener and
// closes C. Close is safe to call more than once.
type Subscription interface {
	// C is the receive side of the listener's event channel.
	C() <-chan entity.NotificationEvent

	// Close removes this listener from the hub and closes C.
	Close()
}

// NotificationHub is the process-wide registry of live listeners per user.
// Publishing is fire-and-forget: disconnected users are silently skipped and
// no history is kept.
type NotificationHub interface {
	// Subscribe registers a new listener for the user. Multiple concurrent
	// subscriptions per user are independent and all receive the same events.
	Subscribe(userID uuid.UUID) Subscription

	// PublishToAll delivers the event to every connected listener.
	PublishToAll(event entity.NotificationEvent)

	// PublishToUsers delivers the event to the listeners of the given users.
	// The id set is de-duplicated first; a user never receives the same
	// event twice from one call.
	PublishToUsers(userIDs []uuid.UUID, event entity.NotificationEvent)
}
