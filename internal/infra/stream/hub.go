// Package stream implements the in-process notification hub backing the SSE
// endpoint. Delivery is best effort: a subscriber that cannot keep up loses
// events rather than blocking publishers.
package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	"github.com/crucial-sub/sub-board/internal/domain/service"
)

// subscriberBufferSize bounds how many undelivered events a single listener
// may queue before further events are dropped for it.
const subscriberBufferSize = 16

type subscriber struct {
	hub    *Hub
	userID uuid.UUID
	events chan entity.NotificationEvent
	once   sync.Once
}

// C returns the channel the listener drains. It is closed by Close.
func (s *subscriber) C() <-chan entity.NotificationEvent {
	return s.events
}

// Close detaches the listener from the hub and closes its channel.
// Safe to call more than once.
func (s *subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.events)
	})
}

// Hub is a mutex-guarded registry of per-user subscriber sets. A user may
// hold several live subscriptions at once (multiple tabs or devices), and
// each receives every published event independently.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewHub is the constructor for Hub.
func NewHub(logger *slog.Logger) service.NotificationHub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener for the given user.
func (h *Hub) Subscribe(userID uuid.UUID) service.Subscription {
	sub := &subscriber{
		hub:    h,
		userID: userID,
		events: make(chan entity.NotificationEvent, subscriberBufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[userID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subscribers[userID] = set
	}
	set[sub] = struct{}{}

	return sub
}

// PublishToAll delivers the event to every live subscription of every user.
func (h *Hub) PublishToAll(event entity.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.subscribers {
		for sub := range set {
			h.send(sub, event)
		}
	}
}

// PublishToUsers delivers the event to every live subscription of the listed
// users. Duplicate IDs in the slice do not cause duplicate delivery, and IDs
// without any listener are skipped.
func (h *Hub) PublishToUsers(userIDs []uuid.UUID, event entity.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		for sub := range h.subscribers[userID] {
			h.send(sub, event)
		}
	}
}

// SubscriberCount reports the number of live subscriptions for a user.
func (h *Hub) SubscriberCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[userID])
}

// send enqueues without blocking. A full buffer means the listener has
// stalled; the event is dropped for that listener only.
func (h *Hub) send(sub *subscriber, event entity.NotificationEvent) {
	select {
	case sub.events <- event:
	default:
		h.logger.Warn("dropping notification for slow subscriber",
			slog.String("userId", sub.userID.String()),
			slog.String("eventType", string(event.Kind)),
		)
	}
}

// remove unregisters a subscriber, dropping the user's entry when its last
// subscription goes away.
func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[sub.userID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subscribers, sub.userID)
	}
}
