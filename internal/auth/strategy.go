package auth

import (
	"crypto/subtle"
	"fmt"
)

// Cookie names used by the two strategies.
const (
	AccessTokenCookie = "access-token"
	UsernameCookie    = "username"
)

// Strategy decides what the session cookie holds and how it is checked.
type Strategy interface {
	// CookieName is the cookie the strategy reads and writes.
	CookieName() string
	// Issue returns the cookie value for a freshly logged-in principal.
	Issue(principalID string) (string, error)
	// Verify returns the principal a cookie value proves, or ok=false.
	Verify(value string) (principalID string, ok bool)
}

// Compile-time interface satisfaction checks.
var (
	_ Strategy = (*TokenStrategy)(nil)
	_ Strategy = (*UsernameStrategy)(nil)
)

// TokenStrategy stores a signed token in the access-token cookie.
type TokenStrategy struct {
	tokens *TokenService
}

// NewTokenStrategy creates a TokenStrategy backed by tokens.
func NewTokenStrategy(tokens *TokenService) *TokenStrategy {
	return &TokenStrategy{tokens: tokens}
}

func (s *TokenStrategy) CookieName() string { return AccessTokenCookie }

func (s *TokenStrategy) Issue(principalID string) (string, error) {
	return s.tokens.Issue(principalID)
}

func (s *TokenStrategy) Verify(value string) (string, bool) {
	return s.tokens.Verify(value)
}

// UsernameStrategy stores the principal's username in plain text and admits
// any request whose cookie equals it. The cookie is not signed.
type UsernameStrategy struct {
	username string
}

// NewUsernameStrategy creates a UsernameStrategy for the given principal.
func NewUsernameStrategy(username string) *UsernameStrategy {
	return &UsernameStrategy{username: username}
}

func (s *UsernameStrategy) CookieName() string { return UsernameCookie }

func (s *UsernameStrategy) Issue(principalID string) (string, error) {
	if principalID != s.username {
		return "", fmt.Errorf("issue username cookie: unknown principal %q", principalID)
	}
	return principalID, nil
}

func (s *UsernameStrategy) Verify(value string) (string, bool) {
	if value == "" || subtle.ConstantTimeCompare([]byte(value), []byte(s.username)) != 1 {
		return "", false
	}
	return value, true
}
