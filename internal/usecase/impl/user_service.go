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

// userService implements the UserUsecase interface.
type userService struct {
	txManager      repository.TransactionManager
	passwordHasher service.PasswordHasher
	logger         *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	passwordHasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager:      txManager,
		passwordHasher: passwordHasher,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpdateProfile changes nickname and/or password. A password change requires
// the current password; a new nickname must be unused.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.PublicUser, error) {
	var profile *entity.PublicUser

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.Nickname != nil && *input.Nickname != user.Nickname {
			if _, err := userRepo.FindByNickname(ctx, *input.Nickname); err == nil {
				return domainerrors.ErrNicknameTaken
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to check nickname")
			}

			user.Nickname = *input.Nickname
		}

		if input.NewPassword != nil {
			if input.CurrentPassword == nil || !srv.passwordHasher.Check(*input.CurrentPassword, user.PasswordHash) {
				return domainerrors.ErrInvalidCredentials
			}

			passwordHash, err := srv.passwordHasher.Hash(*input.NewPassword)
			if err != nil {
				return errors.Wrap(err, "failed to hash password")
			}
			user.PasswordHash = passwordHash
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		profile = user.ToPublic()

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Profile update failed", slog.Any("error", err), slog.Any("user_id", userID))

		return nil, err
	}
	srv.log(ctx).Info("Updated profile", slog.Any("user_id", userID))

	return profile, nil
}

// GetStats aggregates the user's board activity.
func (srv *userService) GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	var stats *entity.UserStats

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		found, err := userRepo.Stats(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load user stats")
		}

		stats = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
