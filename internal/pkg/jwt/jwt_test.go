package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("ops@attendify.local")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.True(t, IsAccessToken(decoded))
	assert.Equal(t, "ops@attendify.local", decoded.Subject())

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	assert.Equal(t, "ops@attendify.local", Subject(ctx))
}

func TestGenerateAccessToken_InvalidExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")

	_, _, err := svc.GenerateAccessToken("ops")
	assert.Error(t, err)
}

func TestIsAccessToken_RejectsOtherTypes(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	_, raw, err := svc.JWTAuth().Encode(map[string]interface{}{"type": "refresh"})
	require.NoError(t, err)
	decoded, err := svc.JWTAuth().Decode(raw)
	require.NoError(t, err)

	assert.False(t, IsAccessToken(decoded))
	assert.False(t, IsAccessToken(nil))
	assert.Equal(t, "", Subject(context.Background()))
}
