package usecase

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	"github.com/crucial-sub/sub-board/internal/domain/repository"

	"github.com/google/uuid"
)

// CreatePostInput carries the fields for a new post. Tags are raw user input
// and are normalized by the use case.
type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
}

// UpdatePostInput carries partial post changes. Nil fields are left as-is;
// a nil Tags slice keeps the current tag set.
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string
}

// PostUsecase defines board post operations.
type PostUsecase interface {
	// CreatePost persists a new post and announces it to all connected
	// listeners.
	CreatePost(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*entity.Post, error)

	// GetPost returns a post with comments and bumps its view counter.
	GetPost(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// ListPosts returns one page of posts, newest first.
	ListPosts(ctx context.Context, page, pageSize int, filter repository.PostFilter) (*entity.PostPage, error)

	// UpdatePost applies changes to the author's own post.
	UpdatePost(ctx context.Context, actorID, postID uuid.UUID, input UpdatePostInput) (*entity.Post, error)

	// DeletePost removes the author's own post with its comments.
	DeletePost(ctx context.Context, actorID, postID uuid.UUID) error

	// ListTags returns every tag with its usage count.
	ListTags(ctx context.Context) ([]*entity.Tag, error)
}
