package handler

import (
	"net/http"

	"github.com/crucial-sub/sub-board/config"
	"github.com/crucial-sub/sub-board/internal/delivery/http/middleware"
	"github.com/crucial-sub/sub-board/internal/delivery/http/response"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for account and session handlers.
type AuthHandler struct {
	uc  usecase.AuthUsecase
	cfg *config.Config
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		cfg: cfg,
	}
}

type registerRequest struct {
	LoginID  string `json:"loginId" validate:"required,min=4,max=20,login_id"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type loginRequest struct {
	LoginID  string `json:"loginId" validate:"required,min=4,max=20"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// Register handles the account creation request. The new account is signed
// in immediately; the token pair travels back as httpOnly cookies.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		LoginID:  req.LoginID,
		Nickname: req.Nickname,
		Password: req.Password,
	}, sessionMetadata(c))
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output.Tokens)

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login handles the credential check and session issuance.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		LoginID:  req.LoginID,
		Password: req.Password,
	}, sessionMetadata(c))
	if err != nil {
		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output.Tokens)

	return response.Success(c, http.StatusOK, output.User, "Login successful")
}

// Refresh redeems the refresh cookie for a fresh token pair. The presented
// token is consumed either way; a reused token is rejected.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrRefreshTokenMissing
	}

	output, err := h.uc.RefreshTokens(c.Request().Context(), cookie.Value, sessionMetadata(c))
	if err != nil {
		h.clearAuthCookies(c)

		return errors.WithStack(err)
	}

	h.setAuthCookies(c, output.Tokens)

	return response.Success(c, http.StatusOK, output.User, "Token refreshed successfully")
}

// Logout ends every session of the user and clears both auth cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	h.clearAuthCookies(c)

	return c.NoContent(http.StatusNoContent)
}

// GetProfile returns the authenticated user's public profile.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile retrieved successfully")
}

func (h *AuthHandler) setAuthCookies(c echo.Context, tokens *entity.AuthTokens) {
	c.SetCookie(h.authCookie(middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessTokenExpiresIn))
	c.SetCookie(h.authCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	c.SetCookie(h.authCookie(middleware.AccessTokenCookie, "", -1))
	c.SetCookie(h.authCookie(middleware.RefreshTokenCookie, "", -1))
}

func (h *AuthHandler) authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	}
}
