package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	// Arrange
	manager := NewJWTManager("test-secret", 2*time.Hour)

	// Act
	token, err := manager.Generate("admin")

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	// Arrange - токен выпущен уже просроченным
	manager := NewJWTManager("test-secret", -time.Minute)
	token, err := manager.Generate("admin")
	require.NoError(t, err)

	// Act
	claims, err := NewJWTManager("test-secret", 2*time.Hour).Validate(token)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	// Arrange
	token, err := NewJWTManager("secret-one", 2*time.Hour).Generate("admin")
	require.NoError(t, err)

	// Act
	claims, err := NewJWTManager("secret-two", 2*time.Hour).Validate(token)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_GarbageToken(t *testing.T) {
	// Arrange
	manager := NewJWTManager("test-secret", 2*time.Hour)

	// Act
	claims, err := manager.Validate("not.a.token")

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckPassword(t *testing.T) {
	// Arrange
	hash, err := HashPassword("admin")
	require.NoError(t, err)

	// Act & Assert
	assert.True(t, CheckPassword("admin", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("admin", "not-a-valid-bcrypt-hash"))
}
