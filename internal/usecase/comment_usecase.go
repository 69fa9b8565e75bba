package usecase

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
)

// CommentUsecase defines comment operations.
type CommentUsecase interface {
	// CreateComment attaches a comment to a post and notifies the post's
	// author.
	CreateComment(ctx context.Context, authorID, postID uuid.UUID, content string) (*entity.Comment, error)

	// UpdateComment edits the author's own comment.
	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, content string) (*entity.Comment, error)

	// DeleteComment removes the author's own comment.
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}
