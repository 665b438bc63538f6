package application

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/ericfisherdev/contacts/internal/auth"
	"github.com/ericfisherdev/contacts/internal/domain/model"
)

// ErrLoginFailed is returned when submitted credentials do not match the
// configured principal.
var ErrLoginFailed = errors.New("login failed")

// Session is what a successful login hands to the transport layer: the
// cookie to set and its value.
type Session struct {
	Principal  string
	CookieName string
	Value      string
}

// AuthService checks credentials against the single configured principal and
// issues session credentials through the selected auth strategy.
type AuthService struct {
	principal model.Principal
	strategy  auth.Strategy
}

// NewAuthService creates an AuthService for principal using strategy.
func NewAuthService(principal model.Principal, strategy auth.Strategy) *AuthService {
	return &AuthService{principal: principal, strategy: strategy}
}

// Login compares username and password with the principal by exact match.
// There is no lockout after repeated failures.
func (s *AuthService) Login(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.principal.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.principal.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrLoginFailed
	}

	value, err := s.strategy.Issue(s.principal.Username)
	if err != nil {
		return nil, fmt.Errorf("issue session for %s: %w", s.principal.Username, err)
	}

	return &Session{
		Principal:  s.principal.Username,
		CookieName: s.strategy.CookieName(),
		Value:      value,
	}, nil
}

// CookieName is the session cookie the current strategy uses, so logout can
// clear it.
func (s *AuthService) CookieName() string {
	return s.strategy.CookieName()
}

// Verify reports which principal a session cookie value proves.
func (s *AuthService) Verify(value string) (string, bool) {
	return s.strategy.Verify(value)
}
