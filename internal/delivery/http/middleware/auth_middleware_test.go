package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenService accepts exactly one access token.
type stubTokenService struct {
	accessToken string
	claims      *service.Claims
}

func (s *stubTokenService) IssueTokens(userID uuid.UUID, loginID string) (*entity.AuthTokens, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) VerifyAccessToken(token string) (*service.Claims, error) {
	if token != s.accessToken {
		return nil, errors.New("signature mismatch")
	}

	return s.claims, nil
}

func (s *stubTokenService) VerifyRefreshToken(token string) (*service.Claims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) RefreshTokenDuration() time.Duration {
	return time.Hour
}

func newAuthContext(req *http.Request) echo.Context {
	e := echo.New()

	return e.NewContext(req, httptest.NewRecorder())
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()
	tokenSvc := &stubTokenService{
		accessToken: "valid-access",
		claims:      &service.Claims{UserID: userID, LoginID: "crucial-sub"},
	}
	m := NewAuthMiddleware(tokenSvc)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	t.Run("accepts the auth cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "valid-access"})
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		require.NoError(t, err)
		assert.Equal(t, userID, c.Get(ContextUserID))
		assert.Equal(t, "crucial-sub", c.Get(ContextLoginID))
	})

	t.Run("falls back to a bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer valid-access")
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		require.NoError(t, err)
		assert.Equal(t, userID, c.Get(ContextUserID))
	})

	t.Run("cookie wins over the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "valid-access"})
		req.Header.Set(echo.HeaderAuthorization, "Bearer stale-token")
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		require.NoError(t, err)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		assert.ErrorIs(t, err, domainerrors.ErrAccessTokenInvalid)
	})

	t.Run("rejects a forged token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "forged"})
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		assert.ErrorIs(t, err, domainerrors.ErrAccessTokenInvalid)
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwdw==")
		c := newAuthContext(req)

		err := m.Authenticate(next)(c)

		assert.ErrorIs(t, err, domainerrors.ErrAccessTokenInvalid)
	})
}
