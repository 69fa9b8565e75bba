package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a long-lived, authorized refresh session. A user may
// hold several concurrent sessions (one per device). The raw refresh token is
// never stored; RefreshTokenHash keeps a salted argon2id hash, so a leaked
// session table does not reveal redeemable tokens.
type Session struct {
	ID               uuid.UUID // The unique ID for this session record.
	UserID           uuid.UUID // Links this session to the User it belongs to.
	RefreshTokenHash string    // Salted argon2id hash of the raw refresh token.
	UserAgent        string    // Provenance metadata, informational only.
	IPAddress        string    // Provenance metadata, informational only.
	ExpiresAt        time.Time // The instant this session stops being redeemable.
	CreatedAt        time.Time // Timestamp of when this session was issued.
}

// Expired reports whether the session can no longer be redeemed at the given
// instant. Expiry is checked lazily at refresh time; there is no background
// state transition.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// SessionMetadata carries the optional provenance recorded on each issued
// session.
type SessionMetadata struct {
	UserAgent string
	IPAddress string
}

// AuthTokens is the freshly minted access/refresh pair handed to the client.
// TTLs are in seconds so the HTTP layer can mirror them into cookie max-age.
type AuthTokens struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresIn  int    `json:"accessTokenExpiresIn"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn"`
}
