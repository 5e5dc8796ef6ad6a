package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, issued, err := m.GenerateToken("user-1", "publisher")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "publisher", claims.Role)
	assert.Equal(t, issued.TokenID(), claims.TokenID())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAtTime(), 5*time.Second)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute)

	token, _, err := m.GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	token, _, err := NewManager("secret1", time.Hour).GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = NewManager("secret2", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestManager_Verify_InvalidSigningMethod(t *testing.T) {
	m := NewManager("secret", time.Hour)

	claims := &Claims{
		UserID: "user-1",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(tokenString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}

func TestMemoryDenylist(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, d.Revoke(ctx, "jti-expired", time.Now().Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}
