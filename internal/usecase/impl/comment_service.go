package impl

import (
	"context"
	"log/slog"

	deliverycontext "github.com/crucial-sub/sub-board/internal/delivery/context"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/domain/service"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// commentExcerptLimit caps how much comment text appears in a notification
// message. Longer comments are cut to 47 runes plus an ellipsis.
const commentExcerptLimit = 50

// commentService implements the CommentUsecase interface.
type commentService struct {
	txManager repository.TransactionManager
	hub       service.NotificationHub
	logger    *slog.Logger
}

// NewCommentService is the constructor for commentService.
func NewCommentService(
	txManager repository.TransactionManager,
	hub service.NotificationHub,
	logger *slog.Logger,
) usecase.CommentUsecase {
	return &commentService{
		txManager: txManager,
		hub:       hub,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *commentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateComment attaches a comment to a post. After commit, the post's
// author gets a toast event; everyone else gets a hint-stripped copy so open
// post views can refresh.
func (srv *commentService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, content string) (*entity.Comment, error) {
	var (
		comment      *entity.Comment
		postAuthorID uuid.UUID
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		post, err := repoFactory.PostRepo().FindByID(ctx, postID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return domainerrors.ErrPostNotFound
			}

			return errors.Wrap(err, "failed to find post")
		}
		postAuthorID = post.Author.ID

		author, err := repoFactory.UserRepo().FindByID(ctx, authorID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrAuthorNotFound
			}

			return errors.Wrap(err, "failed to find author")
		}

		comment = &entity.Comment{
			PostID:  postID,
			Content: content,
			Author:  author.ToPublic(),
		}
		if err := repoFactory.CommentRepo().Create(ctx, comment); err != nil {
			return errors.Wrap(err, "failed to create comment")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Comment creation failed", slog.Any("error", err), slog.Any("post_id", postID), slog.Any("author_id", authorID))

		return nil, err
	}

	srv.publishCommentCreated(comment, postAuthorID)
	srv.log(ctx).Info("Created comment", slog.Any("comment_id", comment.ID), slog.Any("post_id", postID))

	return comment, nil
}

// UpdateComment edits the actor's own comment.
func (srv *commentService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, content string) (*entity.Comment, error) {
	var comment *entity.Comment

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		commentRepo := repoFactory.CommentRepo()

		existing, err := commentRepo.FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return domainerrors.ErrCommentNotFound
			}

			return errors.Wrap(err, "failed to find comment")
		}

		if existing.Author == nil || existing.Author.ID != actorID {
			return domainerrors.ErrCommentUpdateForbidden
		}

		existing.Content = content
		if err := commentRepo.Update(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to update comment")
		}

		comment = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Comment update failed", slog.Any("error", err), slog.Any("comment_id", commentID), slog.Any("actor_id", actorID))

		return nil, err
	}

	return comment, nil
}

// DeleteComment removes the actor's own comment.
func (srv *commentService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		commentRepo := repoFactory.CommentRepo()

		existing, err := commentRepo.FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return domainerrors.ErrCommentNotFound
			}

			return errors.Wrap(err, "failed to find comment")
		}

		if existing.Author == nil || existing.Author.ID != actorID {
			return domainerrors.ErrCommentDeleteForbidden
		}

		if err := commentRepo.Delete(ctx, commentID); err != nil {
			return errors.Wrap(err, "failed to delete comment")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Comment deletion failed", slog.Any("error", err), slog.Any("comment_id", commentID), slog.Any("actor_id", actorID))

		return err
	}

	return nil
}

// publishCommentCreated fans the comment event out. The toast copy goes only
// to the post's author, and never back to the commenter; the hint-stripped
// copy is broadcast so every client viewing the post can refresh it.
func (srv *commentService) publishCommentCreated(comment *entity.Comment, postAuthorID uuid.UUID) {
	event := entity.NewCommentCreatedEvent(comment, commentExcerpt(comment.Content), postAuthorID)

	if postAuthorID != comment.Author.ID {
		srv.hub.PublishToUsers([]uuid.UUID{postAuthorID}, event)
	}

	srv.hub.PublishToAll(event.WithoutToastHint())
}

// commentExcerpt caps the comment text shown in a notification.
func commentExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= commentExcerptLimit {
		return content
	}

	return string(runes[:commentExcerptLimit-3]) + "..."
}
