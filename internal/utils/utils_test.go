package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "EDITOR", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	c, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: 42, Role: "EDITOR"}, c)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("s3cret", 1, "VIEWER", 15)
	require.NoError(t, err)
	expired, err := NewAccessToken("s3cret", 1, "VIEWER", -5)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"alg none":     none,
		"garbage":      "not-a-token",
	} {
		secret := "s3cret"
		if name == "wrong secret" {
			secret = "other"
		}
		_, err := ParseAccessToken(secret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestRefreshTokens(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("popcorn", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "popcorn"))
	assert.False(t, VerifyPassword(h, "nachos"))
}
