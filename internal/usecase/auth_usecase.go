// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	LoginID  string
	Nickname string
	Password string
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	LoginID  string
	Password string
}

// AuthOutput bundles the authenticated user with a freshly issued token
// pair. The raw refresh token appears here exactly once; afterwards only its
// hash exists server-side.
type AuthOutput struct {
	User   *entity.PublicUser
	Tokens *entity.AuthTokens
}

// AuthUsecase defines the account and session lifecycle operations.
type AuthUsecase interface {
	// Register creates an account and signs it in. Both loginID and
	// nickname must be unused.
	Register(ctx context.Context, input RegisterInput, meta entity.SessionMetadata) (*AuthOutput, error)

	// Login verifies credentials and issues a fresh token pair plus a
	// session row.
	Login(ctx context.Context, input LoginInput, meta entity.SessionMetadata) (*AuthOutput, error)

	// RefreshTokens redeems a refresh token. The matched session is
	// consumed; the returned pair belongs to a brand-new session. A token
	// can be redeemed at most once.
	RefreshTokens(ctx context.Context, refreshToken string, meta entity.SessionMetadata) (*AuthOutput, error)

	// Logout ends every session of the user, on all devices.
	Logout(ctx context.Context, userID uuid.UUID) error

	// GetProfile returns the public projection of the user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error)
}
