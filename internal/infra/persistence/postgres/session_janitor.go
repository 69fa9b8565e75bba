package postgres

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// sessionCleanupInterval paces the sweep of expired session rows. Expiry is
// enforced lazily at refresh time; the sweep only keeps the table from
// accumulating dead rows.
const sessionCleanupInterval = time.Hour

// SessionJanitorParams defines the required parameters
type SessionJanitorParams struct {
	fx.In
	fx.Lifecycle

	DB     *gorm.DB
	Logger *slog.Logger
}

// SessionJanitor periodically deletes expired refresh sessions.
type SessionJanitor struct {
	db     *gorm.DB
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewSessionJanitor starts the background sweep with the fx lifecycle.
func NewSessionJanitor(params SessionJanitorParams) *SessionJanitor {
	janitor := &SessionJanitor{
		db:     params.DB,
		logger: params.Logger,
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())
			janitor.cancel = cancel
			go janitor.run(runCtx)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if janitor.cancel != nil {
				janitor.cancel()
			}

			return nil
		},
	})

	return janitor
}

func (j *SessionJanitor) run(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	sessionRepo := NewSessionRepository(j.db)
	if err := sessionRepo.DeleteExpired(ctx); err != nil {
		j.logger.Warn("Failed to delete expired sessions", slog.Any("error", err))

		return
	}

	j.logger.Debug("Swept expired sessions")
}
