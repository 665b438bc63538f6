package auth

import "context"

// principalKey is the key type for storing the principal in context.Context.
type principalKey struct{}

// recorderKey is the key type for the slot installed by WithPrincipalRecorder.
type recorderKey struct{}

type principalRecorder struct {
	principal string
}

// WithPrincipal returns a new context carrying the authenticated principal.
// If an outer handler installed a recorder, the principal is reported to it
// as well.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	if rec, ok := ctx.Value(recorderKey{}).(*principalRecorder); ok {
		rec.principal = principalID
	}
	return context.WithValue(ctx, principalKey{}, principalID)
}

// PrincipalFromContext returns the principal attached by RequireAuth.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey{}).(string)
	return p, ok && p != ""
}

// WithPrincipalRecorder lets a handler that runs outside the gate learn which
// principal the gate admitted further down the chain. The returned function
// reports "" until WithPrincipal is called on a derived context. It must only
// be read after the downstream handler has returned.
func WithPrincipalRecorder(ctx context.Context) (context.Context, func() string) {
	rec := &principalRecorder{}
	return context.WithValue(ctx, recorderKey{}, rec), func() string { return rec.principal }
}
