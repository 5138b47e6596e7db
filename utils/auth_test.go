package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateJWT("64f000000000000000000001", "ada@example.com", "Ada", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.ID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "user", claims.Role)

	// 7-day expiry, give or take a minute of test slack.
	expected := time.Now().Add(7 * 24 * time.Hour).Unix()
	assert.InDelta(t, expected, claims.ExpiresAt, 60)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	JwtKey = []byte("test-secret")
	token, err := GenerateJWT("id", "a@b.c", "A", "user")
	require.NoError(t, err)

	JwtKey = []byte("another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
