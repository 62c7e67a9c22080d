package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword("hunter2hunter2", hash))
	assert.False(t, CheckPassword("wrong password", hash))
	assert.False(t, CheckPassword("hunter2hunter2", "not-a-bcrypt-hash"))
}

func TestRandomPasswordUnique(t *testing.T) {
	a := RandomPassword()
	b := RandomPassword()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
