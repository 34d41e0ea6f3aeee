package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("testpass123")
	require.NoError(t, err)
	assert.NotEqual(t, "testpass123", hash)

	assert.True(t, CheckPassword(hash, "testpass123"))
	assert.False(t, CheckPassword(hash, "wrongpass"))
	assert.False(t, CheckPassword("not-a-hash", "testpass123"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("testpass123")
	require.NoError(t, err)
	h2, err := HashPassword("testpass123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
