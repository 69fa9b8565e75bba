// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "github.com/crucial-sub/sub-board/internal/delivery/context"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/domain/service"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager      repository.TransactionManager
	passwordHasher service.PasswordHasher
	tokenHasher    service.TokenHasher
	tokenService   service.TokenService
	logger         *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	txManager repository.TransactionManager,
	passwordHasher service.PasswordHasher,
	tokenHasher service.TokenHasher,
	tokenService service.TokenService,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		txManager:      txManager,
		passwordHasher: passwordHasher,
		tokenHasher:    tokenHasher,
		tokenService:   tokenService,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and signs it in right away.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput, meta entity.SessionMetadata) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Registering user", slog.String("login_id", input.LoginID))

	var output *usecase.AuthOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		sessionRepo := repoFactory.SessionRepo()

		// 1. Both identifiers must be unused; the two conflicts carry
		// distinct messages so the client can highlight the right field.
		if _, err := userRepo.FindByLoginID(ctx, input.LoginID); err == nil {
			return domainerrors.ErrLoginIDTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check login id")
		}

		if _, err := userRepo.FindByNickname(ctx, input.Nickname); err == nil {
			return domainerrors.ErrNicknameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check nickname")
		}

		// 2. Hash the password and create the account.
		passwordHash, err := srv.passwordHasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}

		user := &entity.User{
			LoginID:      input.LoginID,
			Nickname:     input.Nickname,
			PasswordHash: passwordHash,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		// 3. Sign the fresh account in.
		tokens, err := srv.issueSession(ctx, sessionRepo, user, meta)
		if err != nil {
			return err
		}

		output = &usecase.AuthOutput{
			User:   user.ToPublic(),
			Tokens: tokens,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.Any("error", err), slog.String("login_id", input.LoginID))

		return nil, err
	}
	srv.log(ctx).Info("Successfully registered user", slog.Any("user_id", output.User.ID))

	return output, nil
}

// Login verifies credentials and issues a fresh session. Unknown loginID and
// wrong password both resolve to the same error so the response does not
// reveal which part was wrong.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput, meta entity.SessionMetadata) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Logging in user", slog.String("login_id", input.LoginID))

	var output *usecase.AuthOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		sessionRepo := repoFactory.SessionRepo()

		user, err := userRepo.FindByLoginID(ctx, input.LoginID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !srv.passwordHasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		tokens, err := srv.issueSession(ctx, sessionRepo, user, meta)
		if err != nil {
			return err
		}

		output = &usecase.AuthOutput{
			User:   user.ToPublic(),
			Tokens: tokens,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.Any("error", err), slog.String("login_id", input.LoginID))

		return nil, err
	}
	srv.log(ctx).Info("Successfully logged in user", slog.Any("user_id", output.User.ID))

	return output, nil
}

// RefreshTokens rotates a refresh token. The presented token is matched
// against the user's stored session hashes, the matched session is consumed,
// and a brand-new pair is issued. Each refresh token is redeemable once.
func (srv *authService) RefreshTokens(ctx context.Context, refreshToken string, meta entity.SessionMetadata) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh token verification failed", slog.Any("error", err))

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	var output *usecase.AuthOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		sessionRepo := repoFactory.SessionRepo()

		user, err := userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		// The hash is salted, so there is no lookup by value; scan the
		// user's sessions and test each candidate.
		sessions, err := sessionRepo.FindByUserID(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to find sessions")
		}

		matched := srv.matchSession(sessions, refreshToken)
		if matched == nil || matched.Expired(time.Now()) {
			return domainerrors.ErrRefreshSessionInvalid
		}

		// Consume the matched session. When two requests race on the same
		// token, exactly one delete reports a removed row; the loser sees
		// not-found and is rejected.
		if err := sessionRepo.DeleteByID(ctx, matched.ID); err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return domainerrors.ErrRefreshSessionInvalid
			}

			return errors.Wrap(err, "failed to consume session")
		}

		tokens, err := srv.issueSession(ctx, sessionRepo, user, meta)
		if err != nil {
			return err
		}

		output = &usecase.AuthOutput{
			User:   user.ToPublic(),
			Tokens: tokens,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("error", err), slog.Any("user_id", claims.UserID))

		return nil, err
	}
	srv.log(ctx).Info("Successfully rotated refresh token", slog.Any("user_id", output.User.ID))

	return output, nil
}

// Logout ends every session of the user.
func (srv *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Logging out user", slog.Any("user_id", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.SessionRepo().DeleteByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete sessions")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Logout failed", slog.Any("error", err), slog.Any("user_id", userID))

		return err
	}

	return nil
}

// GetProfile returns the public projection of the user.
func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	var profile *entity.PublicUser

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		profile = user.ToPublic()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// issueSession mints a token pair and records the session row holding the
// refresh token's salted hash. The raw refresh token leaves this function
// exactly once, inside the returned pair.
func (srv *authService) issueSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User, meta entity.SessionMetadata) (*entity.AuthTokens, error) {
	tokens, err := srv.tokenService.IssueTokens(user.ID, user.LoginID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue tokens")
	}

	refreshTokenHash, err := srv.tokenHasher.Hash(tokens.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash refresh token")
	}

	session := &entity.Session{
		UserID:           user.ID,
		RefreshTokenHash: refreshTokenHash,
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
		ExpiresAt:        time.Now().Add(srv.tokenService.RefreshTokenDuration()),
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	return tokens, nil
}

// matchSession finds the session whose stored hash matches the presented
// token. Sessions arrive newest first, so the common case (latest token)
// matches on the first probe.
func (srv *authService) matchSession(sessions []*entity.Session, refreshToken string) *entity.Session {
	for _, session := range sessions {
		if srv.tokenHasher.Matches(refreshToken, session.RefreshTokenHash) {
			return session
		}
	}

	return nil
}
