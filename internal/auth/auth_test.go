package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	ok, err := VerifyPassword("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter3", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "not-a-hash")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := CreateToken("secret", userID, "alice", false, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID())
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.Guest)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := CreateToken("secret", uuid.New(), "alice", false, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenExpiryRejected(t *testing.T) {
	token, err := CreateToken("secret", uuid.New(), "alice", true, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}
