// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines user persistence operations. Lookups by loginID and
// nickname back the registration uniqueness checks and the login flow.
type UserRepository interface {
	// Create persists a new user. Fills in the generated ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByLoginID retrieves a user by its login identifier.
	FindByLoginID(ctx context.Context, loginID string) (*entity.User, error)

	// FindByNickname retrieves a user by its display name.
	FindByNickname(ctx context.Context, nickname string) (*entity.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *entity.User) error

	// Stats aggregates the user's board activity.
	Stats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
}
