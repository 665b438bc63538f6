package auth

import (
	"log/slog"
	"net/http"
	"time"
)

// SessionMaxAge is the Max-Age given to session cookies (900000 ms).
const SessionMaxAge = 15 * time.Minute

// RequireAuth returns middleware that admits a request only when the
// strategy's cookie verifies. Otherwise it redirects to loginPath and the
// wrapped handler is not called. It keeps no state between requests.
func RequireAuth(strategy Strategy, loginPath string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(strategy.CookieName())
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			principal, ok := strategy.Verify(cookie.Value)
			if !ok {
				logger.Debug("rejected session cookie", "cookie", strategy.CookieName(), "path", r.URL.Path)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// SessionCookie builds the cookie set on a successful login.
func SessionCookie(name, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie builds a cookie that makes the browser drop name immediately.
func ClearedCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
