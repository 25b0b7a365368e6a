// ABOUTME: Console principal and context helpers for the signed-in user
// ABOUTME: Provides WithPrincipal/FromContext for propagating identity via context

package auth

import (
	"context"
	"errors"
	"slices"
)

// ErrNoPrincipal indicates an operation that requires a signed-in user ran without one.
var ErrNoPrincipal = errors.New("no principal")

// RoleSuperAdmin is allowed every permission.
const RoleSuperAdmin = "super-admin"

// Principal is the authenticated console user.
type Principal struct {
	ID          string
	Username    string
	DisplayName string
	Roles       []string
}

// IsSuperAdmin reports whether the principal holds the super-admin role.
func (p *Principal) IsSuperAdmin() bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, RoleSuperAdmin)
}

type principalContextKey struct{}

// WithPrincipal returns a new context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext returns the principal stored in ctx, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// MustFromContext returns the principal stored in ctx and panics when absent.
// Only use it behind middleware that guarantees authentication.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
