package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(42, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestJWTValidate_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("different-secret", time.Hour)
		token, err := other.Generate(1, "a@example.com")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.Generate(1, "a@example.com")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong password"), ErrInvalidCredentials)
}

func TestPasswordHashing_WeakPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
