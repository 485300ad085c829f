package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("w-1", true)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	workerID, ok := decoded.Get("worker_id")
	require.True(t, ok)
	assert.Equal(t, "w-1", workerID)

	isAdmin, ok := decoded.Get("is_admin")
	require.True(t, ok)
	assert.Equal(t, true, isAdmin)
}

func TestGenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "forever")

	_, _, err := svc.GenerateAccessToken("w-1", false)

	assert.Error(t, err)
}

func TestDecode_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one-secret", "1h")
	verifier := NewJWTService("another-secret", "1h")

	token, _, err := issuer.GenerateAccessToken("w-1", false)
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}
