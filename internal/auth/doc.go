// Package auth issues and verifies session credentials and guards HTTP
// routes with them.
//
// # Tokens
//
// TokenService signs HS256 JWTs carrying the principal in "sub" and an
// expiry 15 minutes after issuance. Verify collapses every failure (bad
// signature, malformed token, wrong algorithm, expired) into ok=false; it
// never returns an error.
//
// # Strategies
//
// Two interchangeable Strategy implementations decide what the session
// cookie holds:
//
//   - TokenStrategy: cookie "access-token" with a signed TokenService token.
//   - UsernameStrategy: cookie "username" holding the principal's name,
//     admitted by literal equality. It carries no signature and exists for
//     deployments that opt into it explicitly.
//
// Their semantics are intentionally not merged; configuration picks one.
//
// # Gate
//
// RequireAuth wraps protected handlers. Requests without a valid cookie are
// redirected to the login path and the wrapped handler never runs. Admitted
// requests carry the principal in their context:
//
//	principal, ok := auth.PrincipalFromContext(r.Context())
package auth
