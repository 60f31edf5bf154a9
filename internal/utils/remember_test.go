package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRememberTokenRoundTrip(t *testing.T) {
	tok, err := NewRememberToken("top-secret", 42, 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	id, err := ParseRememberToken("top-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestRememberTokenWrongSecret(t *testing.T) {
	tok, err := NewRememberToken("top-secret", 42, 7)
	require.NoError(t, err)

	_, err = ParseRememberToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidRememberToken)
}

func TestRememberTokenGarbage(t *testing.T) {
	_, err := ParseRememberToken("top-secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRememberToken)
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("Passw0rd1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "Passw0rd1"))
	assert.False(t, VerifyPassword(hash, "passw0rd1"))
	assert.False(t, VerifyPassword("", "Passw0rd1"))
}
