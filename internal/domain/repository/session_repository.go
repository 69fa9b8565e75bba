package repository

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a session row is absent, including
// when a concurrent refresh already claimed (deleted) it.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository manages the persisted refresh sessions. Sessions cannot
// be looked up by token hash: the hash is salted, so callers fetch a user's
// sessions and compare each candidate through the token hasher.
type SessionRepository interface {
	// Create persists a new session row. Fills in the generated ID and CreatedAt.
	Create(ctx context.Context, session *entity.Session) error

	// FindByUserID returns every session row for the user, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error)

	// DeleteByID removes one session. Returns ErrSessionNotFound when no row
	// was deleted, which is how a lost refresh race surfaces.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes all of the user's sessions (logout everywhere).
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes sessions past their expiry. Maintenance only;
	// expiry is otherwise checked lazily at refresh time.
	DeleteExpired(ctx context.Context) error
}
