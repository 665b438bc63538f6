package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStrategy(t *testing.T) {
	tokens, _ := newTestTokens(t)
	s := NewTokenStrategy(tokens)

	assert.Equal(t, "access-token", s.CookieName())

	value, err := s.Issue("demo")
	require.NoError(t, err)
	assert.NotEqual(t, "demo", value, "token strategy must not store the bare username")

	principal, ok := s.Verify(value)
	assert.True(t, ok)
	assert.Equal(t, "demo", principal)

	_, ok = s.Verify("demo")
	assert.False(t, ok)
}

func TestUsernameStrategy(t *testing.T) {
	s := NewUsernameStrategy("demo")

	assert.Equal(t, "username", s.CookieName())

	value, err := s.Issue("demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", value)

	principal, ok := s.Verify("demo")
	assert.True(t, ok)
	assert.Equal(t, "demo", principal)

	for _, bad := range []string{"", "Demo", "demo ", "admin"} {
		_, ok := s.Verify(bad)
		assert.Falsef(t, ok, "value %q should be rejected", bad)
	}
}

func TestUsernameStrategy_IssueUnknownPrincipal(t *testing.T) {
	s := NewUsernameStrategy("demo")

	_, err := s.Issue("mallory")
	assert.Error(t, err)
}
