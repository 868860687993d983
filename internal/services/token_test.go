package services

import (
	"testing"
	"time"

	"homerent/config"
	"homerent/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() *TokenService {
	return NewTokenService(config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 168,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	service := testTokenService()

	user := &models.User{Role: models.RoleLandlord}
	user.ID = uuid.New()

	token, err := service.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleLandlord, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(167*time.Hour)))
}

func TestTokenWrongSecret(t *testing.T) {
	user := &models.User{Role: models.RoleTenant}
	user.ID = uuid.New()

	token, err := testTokenService().Issue(user)
	require.NoError(t, err)

	other := NewTokenService(config.Config{JWTSecret: "different", JWTExpiryHours: 1})
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := testTokenService().Parse("not.a.token")
	assert.Error(t, err)
}
