// ABOUTME: Authorization collaborator contract and the role-based default implementation
// ABOUTME: Decisions are allow/deny; evaluation errors are left to the caller to treat as deny

package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// Decision is the outcome of an authorization evaluation.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorizer evaluates whether a principal holds a permission set.
type Authorizer interface {
	Evaluate(ctx context.Context, p *Principal, perms PermissionSet) (Decision, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, p *Principal, perms PermissionSet) (Decision, error)

// Evaluate calls f.
func (f AuthorizerFunc) Evaluate(ctx context.Context, p *Principal, perms PermissionSet) (Decision, error) {
	return f(ctx, p, perms)
}

// RoleStore lists the roles assigned to a user.
type RoleStore interface {
	ListRoles(ctx context.Context, userID string) ([]string, error)
}

// RoleAuthorizer grants permissions through role membership.
type RoleAuthorizer struct {
	roles  RoleStore
	grants map[string]PermissionSet
	logger *slog.Logger
}

// DefaultGrants maps the built-in roles to their permissions.
func DefaultGrants() map[string]PermissionSet {
	return map[string]PermissionSet{
		"editor": {
			{Action: "plugin::content-manager.explorer.read"},
			{Action: "plugin::upload.read"},
		},
		"author": {
			{Action: "plugin::content-manager.explorer.read"},
		},
	}
}

// NewRoleAuthorizer creates a RoleAuthorizer. A nil grants map uses DefaultGrants.
func NewRoleAuthorizer(roles RoleStore, grants map[string]PermissionSet) *RoleAuthorizer {
	if grants == nil {
		grants = DefaultGrants()
	}
	return &RoleAuthorizer{
		roles:  roles,
		grants: grants,
		logger: slog.Default().With("component", "authorizer"),
	}
}

// Evaluate allows the request when any permission granted to one of the
// principal's roles matches any required permission.
func (a *RoleAuthorizer) Evaluate(ctx context.Context, p *Principal, perms PermissionSet) (Decision, error) {
	if perms.Empty() {
		return Allow, nil
	}
	if p == nil {
		return Deny, nil
	}

	roles := p.Roles
	if len(roles) == 0 && a.roles != nil {
		var err error
		roles, err = a.roles.ListRoles(ctx, p.ID)
		if err != nil {
			return Deny, fmt.Errorf("listing roles: %w", err)
		}
	}

	for _, role := range roles {
		if role == RoleSuperAdmin {
			return Allow, nil
		}
		for _, granted := range a.grants[role] {
			for _, required := range perms {
				if granted.Matches(required) {
					return Allow, nil
				}
			}
		}
	}

	a.logger.Debug("no matching grant", "user_id", p.ID, "required", perms.String())
	return Deny, nil
}
