package repository

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for board content persistence.
var (
	// ErrPostNotFound is returned when a post is absent.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment is absent.
	ErrCommentNotFound = errors.New("comment not found")
)

// PostFilter narrows the post listing. Zero values mean "no filter".
type PostFilter struct {
	// Keyword matches title, content, or author nickname, case-insensitively.
	Keyword string
	// Tag restricts to posts carrying the named tag.
	Tag string
}

// PostRepository defines post and tag persistence operations.
type PostRepository interface {
	// Create persists a new post with its tags, creating missing tags.
	Create(ctx context.Context, post *entity.Post, tags []string) error

	// FindByID retrieves a post with author, tags and ordered comments.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// List returns one page of posts, newest first, with the total count.
	List(ctx context.Context, page, pageSize int, filter PostFilter) (*entity.PostPage, error)

	// Update persists title/content changes and, when tags is non-nil,
	// replaces the post's tag set.
	Update(ctx context.Context, post *entity.Post, tags []string) error

	// Delete removes a post and its comments.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViewCount bumps the post's view counter.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// ListTags returns all tags with their usage counts, sorted by name.
	ListTags(ctx context.Context) ([]*entity.Tag, error)
}

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	// Create persists a new comment. Fills in the generated ID and timestamps.
	Create(ctx context.Context, comment *entity.Comment) error

	// FindByID retrieves a comment with its author.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)

	// Update persists content changes to an existing comment.
	Update(ctx context.Context, comment *entity.Comment) error

	// Delete removes a comment.
	Delete(ctx context.Context, id uuid.UUID) error
}
