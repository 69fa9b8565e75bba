package middleware

import (
	"strings"

	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Cookie names shared between the auth middleware and the auth handler.
const (
	AccessTokenCookie  = "sb_access_token"
	RefreshTokenCookie = "sb_refresh_token"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextUserID  = "userID"
	ContextLoginID = "loginID"
)

// AuthMiddleware validates the access token carried by the request.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate resolves the access token from the auth cookie, falling back
// to a Bearer header, and puts the verified identity on the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := accessTokenFrom(c)
		if tokenString == "" {
			return domainerrors.ErrAccessTokenInvalid
		}

		claims, err := m.tokenSvc.VerifyAccessToken(tokenString)
		if err != nil {
			return domainerrors.ErrAccessTokenInvalid
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextLoginID, claims.LoginID)

		return next(c)
	}
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if tokenString := strings.TrimPrefix(authHeader, "Bearer "); tokenString != authHeader {
		return tokenString
	}

	return ""
}
