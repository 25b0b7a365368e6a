// ABOUTME: Permission gate in front of protected page subtrees
// ABOUTME: Delegates to the authorizer and renders a fallback on denial

// Package gate decides whether a principal may enter a protected subtree.
package gate

import (
	"context"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
)

// Gate consults an authorizer. It never returns errors to its callers.
type Gate struct {
	authz  auth.Authorizer
	logger *slog.Logger
}

// New creates a gate backed by authz.
func New(authz auth.Authorizer) *Gate {
	return &Gate{
		authz:  authz,
		logger: slog.Default().With("component", "gate"),
	}
}

// CanEnter reports whether p holds the required permissions.
// An empty set always allows; authorizer errors deny.
func (g *Gate) CanEnter(ctx context.Context, p *auth.Principal, perms auth.PermissionSet) bool {
	if perms.Empty() {
		return true
	}

	decision, err := g.authz.Evaluate(ctx, p, perms)
	if err != nil {
		g.logger.Warn("permission check failed, denying",
			"principal", principalID(p),
			"permissions", perms.String(),
			"error", err,
		)
		return false
	}
	if decision != auth.Allow {
		g.logger.Debug("permission denied",
			"principal", principalID(p),
			"permissions", perms.String(),
		)
		return false
	}
	return true
}

// Guard builds the protected subtree when p may enter and returns fallback
// otherwise. protected is not called on denial. The bool reports entry.
func (g *Gate) Guard(ctx context.Context, p *auth.Principal, perms auth.PermissionSet, fallback templ.Component, protected func() (templ.Component, error)) (templ.Component, bool, error) {
	if !g.CanEnter(ctx, p, perms) {
		return fallback, false, nil
	}
	comp, err := protected()
	return comp, true, err
}

func principalID(p *auth.Principal) string {
	if p == nil {
		return ""
	}
	return p.ID
}
