package stream

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	"github.com/crucial-sub/sub-board/internal/domain/service"
)

func newTestHub() *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(logger).(*Hub)
}

func testEvent(kind entity.EventKind) entity.NotificationEvent {
	return entity.NotificationEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     "새 게시글",
		Message:   "테스트 이벤트",
		CreatedAt: time.Now(),
	}
}

func receiveOne(t *testing.T, sub service.Subscription) entity.NotificationEvent {
	t.Helper()
	select {
	case event, ok := <-sub.C():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return entity.NotificationEvent{}
	}
}

func assertNoEvent(t *testing.T, sub service.Subscription) {
	t.Helper()
	select {
	case event, ok := <-sub.C():
		if ok {
			t.Fatalf("unexpected event delivered: %v", event.ID)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishToAllReachesEveryListener(t *testing.T) {
	hub := newTestHub()

	userA := uuid.New()
	userB := uuid.New()

	subA1 := hub.Subscribe(userA)
	subA2 := hub.Subscribe(userA)
	subB := hub.Subscribe(userB)
	defer subA1.Close()
	defer subA2.Close()
	defer subB.Close()

	event := testEvent(entity.EventPostCreated)
	hub.PublishToAll(event)

	// Every live subscription receives the event, including both of user
	// A's concurrent listeners.
	assert.Equal(t, event.ID, receiveOne(t, subA1).ID)
	assert.Equal(t, event.ID, receiveOne(t, subA2).ID)
	assert.Equal(t, event.ID, receiveOne(t, subB).ID)
}

func TestHub_PublishToUsersDeduplicatesIDs(t *testing.T) {
	hub := newTestHub()

	userA := uuid.New()
	userB := uuid.New()
	userC := uuid.New()

	subA := hub.Subscribe(userA)
	subB := hub.Subscribe(userB)
	subC := hub.Subscribe(userC)
	defer subA.Close()
	defer subB.Close()
	defer subC.Close()

	event := testEvent(entity.EventCommentCreated)
	hub.PublishToUsers([]uuid.UUID{userA, userA, userB}, event)

	assert.Equal(t, event.ID, receiveOne(t, subA).ID)
	assertNoEvent(t, subA)

	assert.Equal(t, event.ID, receiveOne(t, subB).ID)

	// User C was not targeted.
	assertNoEvent(t, subC)
}

func TestHub_PublishToUsersSkipsUnknownIDs(t *testing.T) {
	hub := newTestHub()

	sub := hub.Subscribe(uuid.New())
	defer sub.Close()

	// Publishing to a user without listeners must not panic or deliver.
	hub.PublishToUsers([]uuid.UUID{uuid.New()}, testEvent(entity.EventCommentCreated))
	assertNoEvent(t, sub)
}

func TestHub_CloseRemovesSubscription(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	first := hub.Subscribe(userID)
	second := hub.Subscribe(userID)
	require.Equal(t, 2, hub.SubscriberCount(userID))

	first.Close()
	assert.Equal(t, 1, hub.SubscriberCount(userID))

	// Closing the last subscription removes the user's registry entry.
	second.Close()
	assert.Equal(t, 0, hub.SubscriberCount(userID))

	// Close is idempotent.
	second.Close()
	assert.Equal(t, 0, hub.SubscriberCount(userID))

	// Events published after close are not delivered.
	hub.PublishToAll(testEvent(entity.EventPostCreated))
	_, ok := <-first.C()
	assert.False(t, ok)
}

func TestHub_SubscribeAgainAfterClose(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	old := hub.Subscribe(userID)
	old.Close()

	fresh := hub.Subscribe(userID)
	defer fresh.Close()

	event := testEvent(entity.EventPostCreated)
	hub.PublishToUsers([]uuid.UUID{userID}, event)

	assert.Equal(t, event.ID, receiveOne(t, fresh).ID)
}

func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := newTestHub()

	stalled := hub.Subscribe(uuid.New())
	healthy := hub.Subscribe(uuid.New())
	defer stalled.Close()
	defer healthy.Close()

	// Overflow the stalled listener's buffer; publishes must stay
	// non-blocking and the healthy listener must keep receiving.
	for i := 0; i < subscriberBufferSize+5; i++ {
		hub.PublishToAll(testEvent(entity.EventPostCreated))
	}

	for i := 0; i < subscriberBufferSize; i++ {
		receiveOne(t, healthy)
	}

	drained := 0
	for {
		select {
		case <-stalled.C():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBufferSize, drained)
}

func TestHub_ConcurrentPublishAndSubscribe(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	sub := hub.Subscribe(userID)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.PublishToUsers([]uuid.UUID{userID}, testEvent(entity.EventCommentCreated))
		}
	}()

	for i := 0; i < 20; i++ {
		extra := hub.Subscribe(userID)
		extra.Close()
	}

	<-done
	receiveOne(t, sub)
}
