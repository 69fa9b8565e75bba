package usecase

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput carries optional profile changes. Nil fields stay
// untouched; changing the password requires the current one.
type UpdateProfileInput struct {
	Nickname        *string
	CurrentPassword *string
	NewPassword     *string
}

// UserUsecase defines profile operations beyond the auth lifecycle.
type UserUsecase interface {
	// UpdateProfile changes nickname and/or password for the user.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.PublicUser, error)

	// GetStats aggregates the user's board activity.
	GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
}
