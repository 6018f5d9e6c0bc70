package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitchat/internal/security"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour)

	tok, err := svc.CreateForUser("u1")
	require.NoError(t, err)

	sub, err := svc.Subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
}

func TestTokenWrongSecret(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour)
	other := security.NewTokenService("other", time.Hour)

	tok, err := svc.CreateForUser("u1")
	require.NoError(t, err)

	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	svc := security.NewTokenService("secret", -time.Minute)

	tok, err := svc.CreateForUser("u1")
	require.NoError(t, err)

	_, err = svc.Parse(tok)
	assert.Error(t, err)
}
