package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", 24)
	require.NoError(t, err)

	id := primitive.NewObjectID()
	token, err := tm.Generate(id, "user@estate.test", "user")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "user@estate.test", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenManagerRejectsForeignTokens(t *testing.T) {
	first, err := NewTokenManager("first-secret", 24)
	require.NoError(t, err)
	second, err := NewTokenManager("second-secret", 24)
	require.NoError(t, err)

	token, err := first.Generate(primitive.NewObjectID(), "user@estate.test", "user")
	require.NoError(t, err)

	_, err = second.Validate(token)
	assert.Error(t, err)
}

func TestTokenManagerConfig(t *testing.T) {
	t.Run("empty secret is refused", func(t *testing.T) {
		_, err := NewTokenManager("", 24)
		assert.Error(t, err)
	})

	t.Run("secret comes from the constructor, not the environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "env-secret")

		tm, err := NewTokenManager("cfg-secret", 24)
		require.NoError(t, err)

		token, err := tm.Generate(primitive.NewObjectID(), "user@estate.test", "user")
		require.NoError(t, err)
		_, err = tm.Validate(token)
		assert.NoError(t, err)

		env, err := NewTokenManager("env-secret", 24)
		require.NoError(t, err)
		_, err = env.Validate(token)
		assert.Error(t, err)
	})

	t.Run("non-positive expiry falls back to a day", func(t *testing.T) {
		tm, err := NewTokenManager("test-secret", 0)
		require.NoError(t, err)

		token, err := tm.Generate(primitive.NewObjectID(), "user@estate.test", "user")
		require.NoError(t, err)
		claims, err := tm.Validate(token)
		require.NoError(t, err)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
	})
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)

	assert.NoError(t, CheckPassword(hashed, "hunter22"))
	assert.Error(t, CheckPassword(hashed, "hunter23"))
}

func TestIsValidObjectID(t *testing.T) {
	assert.True(t, IsValidObjectID(primitive.NewObjectID().Hex()))
	assert.False(t, IsValidObjectID("PROP1001"))
	assert.False(t, IsValidObjectID(""))
}
