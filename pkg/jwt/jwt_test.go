package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 900, 86400)

	token, err := m.GenerateAccessToken("42", "Hanako", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "Hanako", claims.Name)
	assert.True(t, claims.IsAdmin())
}

func TestManager_RefreshTokenRejectedAsAccess(t *testing.T) {
	m := NewManager("secret", 900, 86400)

	token, err := m.GenerateRefreshToken("42", "Hanako", RolePartner)
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, RolePartner, claims.Role)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", 60, 60)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateAccessToken("1", "x", RolePartner)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_WrongSecret(t *testing.T) {
	a := NewManager("secret-a", 900, 900)
	b := NewManager("secret-b", 900, 900)

	token, err := a.GenerateAccessToken("1", "x", RolePartner)
	require.NoError(t, err)

	_, err = b.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
