package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndVerifyJWT(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(userID, time.Minute, testSecret)
	require.NoError(t, err)

	claims, err := VerifyJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID())
}

func TestVerifyJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), time.Minute, testSecret)
	require.NoError(t, err)

	_, err = VerifyJWT(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestVerifyJWTExpired(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), -time.Minute, testSecret)
	require.NoError(t, err)

	_, err = VerifyJWT(token, testSecret)
	assert.Error(t, err)
}

func TestClaimsUserIDInvalidSubject(t *testing.T) {
	claims := &Claims{}
	claims.Subject = "not-a-uuid"
	assert.Equal(t, uuid.Nil, claims.UserID())
}
