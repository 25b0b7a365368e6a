// Package auth provides identity and authorization primitives for the admin shell.
//
// # Principals
//
// A Principal is the signed-in console user. The console attaches it to the
// request context after verifying the session cookie:
//
//	ctx = auth.WithPrincipal(ctx, principal)
//	p := auth.FromContext(ctx) // nil when anonymous
//
// # Permissions
//
// Routes and plugin menu entries declare a PermissionSet. A Permission is an
// action name with an optional subject, mirroring the admin permission model:
//
//	auth.PermissionSet{{Action: "admin::marketplace.read"}}
//
// An empty set means "no requirement".
//
// # Authorizer
//
// Authorizer is the consumption contract for the permission-rule engine. The
// shell never evaluates rules itself; it asks an Authorizer for a Decision.
// RoleAuthorizer is the default implementation: it loads the principal's roles
// from a RoleStore and allows a request when any granted permission matches
// any required permission. The super-admin role is allowed everything.
//
// # Session Tokens
//
// SessionTokens issues and verifies HS256 JWTs used as the console session
// cookie. The subject claim carries the user ID.
package auth
