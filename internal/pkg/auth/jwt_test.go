package auth

import (
	"testing"
	"time"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string, expiry time.Duration) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{Secret: secret, AccessTokenExpiry: expiry},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef", time.Hour))

	token, err := manager.GenerateAccessToken(Identity{UserID: "firebase-uid-1", Email: "rina@example.com", Name: "Rina"})
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", claims.UserID)
	assert.Equal(t, "rina@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "user:firebase-uid-1", claims.Subject)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef", time.Hour))
	verifier := NewJWTManager(testConfig("fedcba9876543210fedcba9876543210", time.Hour))

	token, err := issuer.GenerateAccessToken(Identity{UserID: "u1"})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	manager := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef", -time.Minute))

	token, err := manager.GenerateAccessToken(Identity{UserID: "u1"})
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateRequiresUserID(t *testing.T) {
	manager := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef", time.Hour))
	_, err := manager.GenerateAccessToken(Identity{})
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}
