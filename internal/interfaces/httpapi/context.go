package httpapi

import (
	"context"

	"github.com/sporating/sporating/internal/domain/user"
)

type contextKey int

const principalKey contextKey = iota

func withPrincipal(ctx context.Context, principal user.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// principalFrom returns the verified identity set by the auth middleware.
func principalFrom(ctx context.Context) (user.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(user.Principal)
	return principal, ok
}
