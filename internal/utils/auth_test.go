package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	encoded := string(hash)
	assert.True(t, strings.HasPrefix(encoded, "argon2id$v=19$"))

	assert.NoError(t, VerifyPassword(encoded, "correct horse battery staple"))
	assert.Error(t, VerifyPassword(encoded, "wrong password"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same password")
	require.NoError(t, err)
	second, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.Error(t, VerifyPassword("not-a-hash", "anything"))
	assert.Error(t, VerifyPassword("argon2id$v=19$m=x$bad$bad", "anything"))
}
