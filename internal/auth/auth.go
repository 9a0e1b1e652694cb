package auth

import (
	"context"
	"net/http"

	authlib "example.com/exercisetracker/pkg/auth"
)

// Scopes used by the exercise service.
const (
	ScopeExercisesRead  = "exercises:read"
	ScopeExercisesWrite = "exercises:write"
)

// Claims aliases the shared claims type.
type Claims = authlib.Claims

// Config aliases the shared auth config.
type Config = authlib.Config

// WithClaims stores claims in context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return authlib.WithClaims(ctx, claims)
}

// FromContext retrieves claims from context.
func FromContext(ctx context.Context) (*Claims, bool) {
	return authlib.FromContext(ctx)
}

// Middleware enforces bearer-token authentication.
type Middleware struct {
	inner authlib.Middleware
}

// NewMiddleware constructs middleware that lets probes and metrics through.
func NewMiddleware(cfg Config) Middleware {
	skipper := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	return Middleware{inner: authlib.NewMiddleware(cfg, skipper)}
}

// Wrap applies authentication around next.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return m.inner.Wrap(next)
}
