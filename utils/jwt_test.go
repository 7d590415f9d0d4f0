package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "restaurant-chain")

	token, err := tm.GenerateToken(42, "staff")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "restaurant-chain", claims.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "restaurant-chain")

	other := NewTokenManager("other-secret", time.Hour, "restaurant-chain")
	forged, err := other.GenerateToken(1, "admin")
	require.NoError(t, err)
	_, err = tm.ParseToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := NewTokenManager("secret", time.Hour, "someone-else")
	wrongIssuer, err := foreign.GenerateToken(1, "admin")
	require.NoError(t, err)
	_, err = tm.ParseToken(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", -time.Minute, "restaurant-chain")
	old, err := expired.GenerateToken(1, "staff")
	require.NoError(t, err)
	_, err = tm.ParseToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &CustomClaims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.ParseToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "restaurant-chain")
	token, err := tm.GenerateToken(7, "staff")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	tm.Revoke(token, claims)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 1, tm.Blacklist().Cleanup())
}

func TestBlacklistExpiry(t *testing.T) {
	b := NewBlacklist()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.Add("a", now.Add(time.Minute))
	b.Add("b", now.Add(time.Hour))
	assert.True(t, b.Contains("a"))
	assert.False(t, b.Contains("c"))

	now = now.Add(2 * time.Minute)
	assert.False(t, b.Contains("a"))
	assert.Equal(t, 1, b.Cleanup())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 0, b.Cleanup())
}
