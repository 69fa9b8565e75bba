package auth

import (
	"testing"
	"time"

	"github.com/crucial-sub/sub-board/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	return cfg
}

func TestJWTService_IssueAndVerifyTokens(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	userID := uuid.New()

	tokens, err := jwtService.IssueTokens(userID, "crucial-sub")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, 900, tokens.AccessTokenExpiresIn)
	assert.Equal(t, 1209600, tokens.RefreshTokenExpiresIn)

	accessClaims, err := jwtService.VerifyAccessToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.NotNil(t, accessClaims)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, "crucial-sub", accessClaims.LoginID)

	refreshClaims, err := jwtService.VerifyRefreshToken(tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotNil(t, refreshClaims)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "crucial-sub", refreshClaims.LoginID)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	tokens, err := jwtService.IssueTokens(uuid.New(), "crucial-sub")
	assert.NoError(t, err)

	// An access token must not verify as a refresh token and vice versa.
	claims, err := jwtService.VerifyRefreshToken(tokens.AccessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = jwtService.VerifyAccessToken(tokens.RefreshToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	invalidToken := "clearly-not-a-jwt-token-format"
	claims, err := jwtService.VerifyAccessToken(invalidToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_ConfiguredTTLs(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  60,
		RefreshTokenTTL: 3600,
	}

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)

	assert.Equal(t, time.Hour, jwtService.RefreshTokenDuration())

	tokens, err := jwtService.IssueTokens(uuid.New(), "crucial-sub")
	assert.NoError(t, err)
	assert.Equal(t, 60, tokens.AccessTokenExpiresIn)
	assert.Equal(t, 3600, tokens.RefreshTokenExpiresIn)
}

func TestJWTService_DefaultRefreshTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	assert.Equal(t, 1209600*time.Second, jwtService.RefreshTokenDuration())
}
