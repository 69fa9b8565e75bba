// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/crucial-sub/sub-board/config"
	"github.com/crucial-sub/sub-board/internal/domain/entity"
	"github.com/crucial-sub/sub-board/internal/domain/service"
)

const (
	defaultAccessTokenTTL  = 900 * time.Second
	defaultRefreshTokenTTL = 1209600 * time.Second
)

// tokenClaims is the JWT payload carried by both token kinds.
type tokenClaims struct {
	LoginID string `json:"loginId"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens are signed with separate secrets so a leaked
// access secret cannot mint refresh tokens.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL := defaultAccessTokenTTL
	refreshTTL := defaultRefreshTokenTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = time.Duration(cfg.Auth.AccessTokenTTL) * time.Second
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = time.Duration(cfg.Auth.RefreshTokenTTL) * time.Second
		}
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueTokens creates a fresh access/refresh token pair for a user.
func (s *jwtService) IssueTokens(userID uuid.UUID, loginID string) (*entity.AuthTokens, error) {
	accessToken, err := s.signToken(userID, loginID, s.accessTTL, s.accessSecret)
	if err != nil {
		return nil, errors.Wrap(err, "sign access token failed")
	}

	refreshToken, err := s.signToken(userID, loginID, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return nil, errors.Wrap(err, "sign refresh token failed")
	}

	return &entity.AuthTokens{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  int(s.accessTTL / time.Second),
		RefreshTokenExpiresIn: int(s.refreshTTL / time.Second),
	}, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *jwtService) VerifyAccessToken(tokenString string) (*service.Claims, error) {
	return s.verifyToken(tokenString, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (s *jwtService) VerifyRefreshToken(tokenString string) (*service.Claims, error) {
	return s.verifyToken(tokenString, s.refreshSecret)
}

// RefreshTokenDuration returns the configured lifetime for refresh tokens.
// The session store uses it to compute session expiry.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) verifyToken(tokenString, secret string) (*service.Claims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token failed")
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "parse token subject failed")
	}

	return &service.Claims{
		UserID:  userID,
		LoginID: claims.LoginID,
	}, nil
}

func (s *jwtService) signToken(userID uuid.UUID, loginID string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		LoginID: loginID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
