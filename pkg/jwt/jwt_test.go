package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	j := NewJWTUtil()

	token, err := j.GenerateToken("u1", "miller@station7.example", "Cpt. Miller", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "miller@station7.example", claims.Email)
	assert.Equal(t, "Cpt. Miller", claims.DisplayName)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "firetrack-backend", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := NewJWTUtil().GenerateToken("u1", "a@b.example", "A", "reader")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = NewJWTUtil().ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := NewJWTUtil().ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	t.Run("reissues a token close to expiry", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRY", "30m")
		j := NewJWTUtil()

		token, err := j.GenerateToken("u1", "a@b.example", "A", "operator")
		require.NoError(t, err)

		refreshed, err := j.RefreshToken(token)
		require.NoError(t, err)

		claims, err := j.ValidateToken(refreshed)
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Role)
	})

	t.Run("leaves a fresh token untouched", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRY", "24h")
		j := NewJWTUtil()

		token, err := j.GenerateToken("u1", "a@b.example", "A", "operator")
		require.NoError(t, err)

		refreshed, err := j.RefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, token, refreshed)
	})
}
