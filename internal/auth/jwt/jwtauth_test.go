package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	jwtAuth, err := New(&Config{JWTSecret: "secret"})
	require.NoError(t, err)

	tok, err := NewToken(jwtAuth, time.Hour, "analyst")
	require.NoError(t, err)

	sub, err := VerifyToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Equal(t, "analyst", sub)
}

func TestTokenExpired(t *testing.T) {
	jwtAuth, err := New(&Config{JWTSecret: "secret"})
	require.NoError(t, err)

	tok, err := NewToken(jwtAuth, -time.Hour, "")
	require.NoError(t, err)

	_, err = VerifyToken(jwtAuth, tok)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	a, err := New(&Config{JWTSecret: "secret"})
	require.NoError(t, err)
	b, err := New(&Config{JWTSecret: "other"})
	require.NoError(t, err)

	tok, err := NewToken(a, time.Hour, "")
	require.NoError(t, err)

	_, err = VerifyToken(b, tok)
	assert.Error(t, err)
}

func TestNewEmptySecret(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}
