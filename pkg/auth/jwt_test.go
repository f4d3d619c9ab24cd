package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager, err := NewJWTManager(JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "phonebook-backend",
	})
	require.NoError(t, err)

	token, err := manager.IssueToken("user-123", "ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "ada", claims.Username)
}

func TestJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager(JWTConfig{})
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTManager(JWTConfig{SecretKey: "secret-a"})
	require.NoError(t, err)
	verifier, err := NewJWTManager(JWTConfig{SecretKey: "secret-b"})
	require.NoError(t, err)

	token, err := issuer.IssueToken("user-123", "ada")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsMalformedToken(t *testing.T) {
	manager, err := NewJWTManager(JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTManager_RejectsWrongIssuer(t *testing.T) {
	issuer, err := NewJWTManager(JWTConfig{SecretKey: "test-secret", Issuer: "other-service"})
	require.NoError(t, err)
	verifier, err := NewJWTManager(JWTConfig{SecretKey: "test-secret", Issuer: "phonebook-backend"})
	require.NoError(t, err)

	token, err := issuer.IssueToken("user-123", "ada")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager, err := NewJWTManager(JWTConfig{
		SecretKey:  "test-secret",
		ExpiryTime: -time.Minute,
	})
	require.NoError(t, err)

	token, err := manager.IssueToken("user-123", "ada")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
