package interceptors

import (
	"context"

	"ticketvault/backend/internal/auth/service"
)

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// WithPrincipal returns a context carrying the authenticated principal.
// Handlers read it back via PrincipalFromContext.
func WithPrincipal(ctx context.Context, p *service.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal set by the auth interceptor and
// true if present; otherwise nil, false.
func PrincipalFromContext(ctx context.Context) (*service.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*service.Principal)
	return p, ok
}
