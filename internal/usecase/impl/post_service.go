package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "github.com/crucial-sub/sub-board/internal/delivery/context"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/domain/service"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	maxTagLength    = 40
	maxTagCount     = 10
)

// postService implements the PostUsecase interface.
type postService struct {
	txManager repository.TransactionManager
	hub       service.NotificationHub
	logger    *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(
	txManager repository.TransactionManager,
	hub service.NotificationHub,
	logger *slog.Logger,
) usecase.PostUsecase {
	return &postService{
		txManager: txManager,
		hub:       hub,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePost persists a new post and announces it to every connected
// listener after the transaction commits.
func (srv *postService) CreatePost(ctx context.Context, authorID uuid.UUID, input usecase.CreatePostInput) (*entity.Post, error) {
	var post *entity.Post

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		author, err := repoFactory.UserRepo().FindByID(ctx, authorID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrAuthorNotFound
			}

			return errors.Wrap(err, "failed to find author")
		}

		post = &entity.Post{
			Title:   input.Title,
			Content: input.Content,
			Author:  author.ToPublic(),
		}

		if err := repoFactory.PostRepo().Create(ctx, post, normalizeTags(input.Tags)); err != nil {
			return errors.Wrap(err, "failed to create post")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Post creation failed", slog.Any("error", err), slog.Any("author_id", authorID))

		return nil, err
	}

	// Publish only after the post is durable; a rolled-back post must not
	// be announced.
	srv.hub.PublishToAll(entity.NewPostCreatedEvent(post))
	srv.log(ctx).Info("Created post", slog.Any("post_id", post.ID), slog.Any("author_id", authorID))

	return post, nil
}

// GetPost returns a post with its comments and bumps the view counter. The
// returned snapshot carries the pre-increment count.
func (srv *postService) GetPost(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post *entity.Post

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		found, err := postRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return domainerrors.ErrPostNotFound
			}

			return errors.Wrap(err, "failed to find post")
		}

		if err := postRepo.IncrementViewCount(ctx, id); err != nil {
			return errors.Wrap(err, "failed to increment view count")
		}

		post = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// ListPosts returns one page of posts, newest first. Page defaults to 1 and
// pageSize to 10, capped at 50.
func (srv *postService) ListPosts(ctx context.Context, page, pageSize int, filter repository.PostFilter) (*entity.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Tag = strings.TrimSpace(filter.Tag)

	var pageResult *entity.PostPage

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		result, err := repoFactory.PostRepo().List(ctx, page, pageSize, filter)
		if err != nil {
			return errors.Wrap(err, "failed to list posts")
		}

		pageResult = result

		return nil
	})
	if err != nil {
		return nil, err
	}

	return pageResult, nil
}

// UpdatePost applies changes to the actor's own post.
func (srv *postService) UpdatePost(ctx context.Context, actorID, postID uuid.UUID, input usecase.UpdatePostInput) (*entity.Post, error) {
	var post *entity.Post

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		existing, err := srv.ensureOwnership(ctx, postRepo, postID, actorID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			existing.Title = *input.Title
		}
		if input.Content != nil {
			existing.Content = *input.Content
		}

		var tags []string
		if input.Tags != nil {
			tags = normalizeTags(input.Tags)
		}

		if err := postRepo.Update(ctx, existing, tags); err != nil {
			return errors.Wrap(err, "failed to update post")
		}

		post = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Post update failed", slog.Any("error", err), slog.Any("post_id", postID), slog.Any("actor_id", actorID))

		return nil, err
	}

	return post, nil
}

// DeletePost removes the actor's own post with its comments.
func (srv *postService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if _, err := srv.ensureOwnership(ctx, postRepo, postID, actorID); err != nil {
			return err
		}

		if err := postRepo.Delete(ctx, postID); err != nil {
			return errors.Wrap(err, "failed to delete post")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Post deletion failed", slog.Any("error", err), slog.Any("post_id", postID), slog.Any("actor_id", actorID))

		return err
	}
	srv.log(ctx).Info("Deleted post", slog.Any("post_id", postID))

	return nil
}

// ListTags returns every tag with its usage count.
func (srv *postService) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	var tags []*entity.Tag

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.PostRepo().ListTags(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list tags")
		}

		tags = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// ensureOwnership loads the post and verifies the actor wrote it.
func (srv *postService) ensureOwnership(ctx context.Context, postRepo repository.PostRepository, postID, actorID uuid.UUID) (*entity.Post, error) {
	post, err := postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	if post.Author == nil || post.Author.ID != actorID {
		return nil, domainerrors.ErrPostForbidden
	}

	return post, nil
}

// normalizeTags sanitizes raw tag input: the leading '#' is stripped,
// whitespace trimmed, empties skipped, duplicates removed
// case-insensitively, names capped at 40 characters and the set at 10 tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	sanitized := make([]string, 0, len(tags))

	for _, raw := range tags {
		normalized := strings.TrimSpace(strings.TrimPrefix(raw, "#"))
		if normalized == "" {
			continue
		}

		key := strings.ToLower(normalized)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if runes := []rune(normalized); len(runes) > maxTagLength {
			normalized = string(runes[:maxTagLength])
		}
		sanitized = append(sanitized, normalized)

		if len(sanitized) == maxTagCount {
			break
		}
	}

	return sanitized
}
