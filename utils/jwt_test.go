package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("round-trip-secret")
	siteID := uint(3)

	token, err := GenerateToken(secret, time.Hour, time.Now(), 7, "demo_ad", "admin", &siteID)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "demo_ad", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.SiteID)
	assert.Equal(t, uint(3), *claims.SiteID)
}

func TestTokenOwnerHasNoSite(t *testing.T) {
	secret := []byte("round-trip-secret")

	token, err := GenerateToken(secret, time.Hour, time.Now(), 1, "owner", "owner", nil)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Nil(t, claims.SiteID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), time.Hour, time.Now(), 7, "demo_ad", "admin", nil)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("round-trip-secret")

	token, err := GenerateToken(secret, time.Hour, time.Now().Add(-2*time.Hour), 7, "demo_ad", "admin", nil)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("round-trip-secret"), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
