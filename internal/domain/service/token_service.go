package service

import (
	"time"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims is the verified identity carried by both token classes.
type Claims struct {
	UserID  uuid.UUID
	LoginID string
}

// TokenService mints and verifies the signed, time-limited token pair.
// Access and refresh tokens are signed with different secrets so leaking one
// secret does not compromise the other token class.
type TokenService interface {
	// IssueTokens mints a fresh access/refresh pair for the subject.
	IssueTokens(userID uuid.UUID, loginID string) (*entity.AuthTokens, error)

	// VerifyAccessToken checks signature and expiry against the access secret.
	VerifyAccessToken(token string) (*Claims, error)

	// VerifyRefreshToken checks signature and expiry against the refresh secret.
	VerifyRefreshToken(token string) (*Claims, error)

	// RefreshTokenDuration returns the configured refresh token lifetime,
	// used to stamp ExpiresAt on new session rows.
	RefreshTokenDuration() time.Duration
}
