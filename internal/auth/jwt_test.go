package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("admin@example.com", "admin", "registration-api", "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)

	claims, err := Parse(tok.Value, "secret", "registration-api")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_RejectsWrongKeyAndIssuer(t *testing.T) {
	tok, err := Issue("a@b.c", "member", "registration-api", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(tok.Value, "other-secret", "registration-api")
	assert.Error(t, err)

	_, err = Parse(tok.Value, "secret", "someone-else")
	assert.Error(t, err)
}

func TestParse_RejectsExpired(t *testing.T) {
	tok, err := Issue("a@b.c", "member", "registration-api", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok.Value, "secret", "registration-api")
	assert.Error(t, err)
}
