package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("secret123")
	require.NoError(t, err)
	second, err := HashPassword("secret123")
	require.NoError(t, err)

	// Same plaintext, different salts.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("secret123", first))
	assert.True(t, CheckPasswordHash("secret123", second))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(20)
	require.NoError(t, err)
	assert.Len(t, token, 40) // hex-encoded

	other, err := GenerateRandomToken(20)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	digest := HashToken("some-reset-token")

	assert.Len(t, digest, 64)
	assert.NotEqual(t, "some-reset-token", digest)
	assert.Equal(t, digest, HashToken("some-reset-token"))
	assert.NotEqual(t, digest, HashToken("some-other-token"))
}
