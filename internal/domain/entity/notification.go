package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind enumerates the notification event types delivered over the
// live stream.
type EventKind string

const (
	// EventPostCreated is fanned out to every connected user.
	EventPostCreated EventKind = "post.created"
	// EventCommentCreated toasts the post's author and lets any client
	// viewing the post refresh its detail view.
	EventCommentCreated EventKind = "comment.created"
)

// NotificationEvent is the transient payload pushed to live listeners. It is
// immutable once constructed and never persisted; the hub keeps no history.
type NotificationEvent struct {
	ID        uuid.UUID    `json:"id"`
	Kind      EventKind    `json:"type"`
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	Href      string       `json:"href"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *EventAuthor `json:"author,omitempty"`

	// Routing hints, set on comment events only. PostAuthorID marks the
	// toast recipient; PostID tells clients which post-detail cache to
	// invalidate.
	PostAuthorID *uuid.UUID `json:"postAuthorId,omitempty"`
	PostID       *uuid.UUID `json:"postId,omitempty"`
}

// EventAuthor is the public identity of the actor who triggered an event.
type EventAuthor struct {
	ID       uuid.UUID `json:"id"`
	Nickname string    `json:"nickname"`
}

// NewPostCreatedEvent builds the broadcast event for a freshly created post.
func NewPostCreatedEvent(post *Post) NotificationEvent {
	return NotificationEvent{
		ID:        uuid.New(),
		Kind:      EventPostCreated,
		Title:     "새 게시글",
		Message:   fmt.Sprintf("%s님이 %q 글을 작성했어요.", post.Author.Nickname, post.Title),
		Href:      fmt.Sprintf("/posts/%s", post.ID),
		CreatedAt: time.Now(),
		Author:    &EventAuthor{ID: post.Author.ID, Nickname: post.Author.Nickname},
	}
}

// NewCommentCreatedEvent builds the event for a new comment. excerpt must
// already be truncated for display; postAuthorID marks who should see the
// toast.
func NewCommentCreatedEvent(comment *Comment, excerpt string, postAuthorID uuid.UUID) NotificationEvent {
	postID := comment.PostID

	return NotificationEvent{
		ID:        uuid.New(),
		Kind:      EventCommentCreated,
		Title:     "새 댓글",
		Message:   fmt.Sprintf("%s님: %s", comment.Author.Nickname, excerpt),
		Href:      fmt.Sprintf("/posts/%s#comment-%s", comment.PostID, comment.ID),
		CreatedAt: time.Now(),
		Author:    &EventAuthor{ID: comment.Author.ID, Nickname: comment.Author.Nickname},

		PostAuthorID: &postAuthorID,
		PostID:       &postID,
	}
}

// WithoutToastHint returns a copy of the event with the toast routing hint
// cleared, for the cache-invalidation broadcast that should not raise toasts.
// The copy gets its own event ID so clients can tell the deliveries apart.
func (e NotificationEvent) WithoutToastHint() NotificationEvent {
	e.ID = uuid.New()
	e.PostAuthorID = nil

	return e
}
