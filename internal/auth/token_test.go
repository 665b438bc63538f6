package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-jwt-signing")

// fakeClock is a settable clock for expiry tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(t *testing.T) (*TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := NewTokenService(testSecret, WithClock(clock.Now))
	require.NoError(t, err)
	return svc, clock
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	svc, err := NewTokenService(nil)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, _ := newTestTokens(t)

	token, err := svc.Issue("demo")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	principal, ok := svc.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, "demo", principal)
}

func TestTokenService_IssueEmptyPrincipal(t *testing.T) {
	svc, _ := newTestTokens(t)

	_, err := svc.Issue("")
	assert.Error(t, err)
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc, _ := newTestTokens(t)

	a, err := svc.Issue("demo")
	require.NoError(t, err)
	b, err := svc.Issue("demo")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "tokens issued at the same instant should differ by jti")
}

func TestTokenService_Expiry(t *testing.T) {
	svc, clock := newTestTokens(t)

	token, err := svc.Issue("demo")
	require.NoError(t, err)

	clock.Advance(TokenTTL - time.Second)
	_, ok := svc.Verify(token)
	assert.True(t, ok, "token should still be valid just before expiry")

	clock.Advance(time.Second)
	_, ok = svc.Verify(token)
	assert.False(t, ok, "token should be invalid at exactly issuance + 15m")

	clock.Advance(time.Hour)
	_, ok = svc.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, _ := newTestTokens(t)

	token, err := svc.Issue("demo")
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	sig := token[sigStart:]

	// The last base64url character carries padding bits that a decoder may
	// ignore, so only the fully significant characters are flipped.
	for i := 0; i < len(sig)-1; i++ {
		flipped := []byte(token)
		if flipped[sigStart+i] == 'A' {
			flipped[sigStart+i] = 'B'
		} else {
			flipped[sigStart+i] = 'A'
		}

		_, ok := svc.Verify(string(flipped))
		assert.Falsef(t, ok, "flipping signature character %d should invalidate the token", i)
	}
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc, clock := newTestTokens(t)

	other, err := NewTokenService([]byte("different-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	wrongSecret, err := other.Issue("demo")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "demo",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "demo",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "demo",
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "malformed JWT", token: "header.payload.signature"},
		{name: "wrong secret", token: wrongSecret},
		{name: "alg none", token: noneToken},
		{name: "unexpected algorithm", token: hs512},
		{name: "missing expiry", token: noExpiry},
		{name: "missing subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, ok := svc.Verify(tt.token)
			assert.False(t, ok)
			assert.Empty(t, principal)
		})
	}
}

func TestTokenService_RotatedSecretInvalidatesTokens(t *testing.T) {
	svc, clock := newTestTokens(t)
	token, err := svc.Issue("demo")
	require.NoError(t, err)

	rotated, err := NewTokenService([]byte("rotated-secret"), WithClock(clock.Now))
	require.NoError(t, err)

	_, ok := rotated.Verify(token)
	assert.False(t, ok)
}
