// ABOUTME: Package console is the HTTP surface of the administration shell
// ABOUTME: Login/logout, session cookies, CSRF and hand-off of /admin/ navigations to the shell

// Package console serves the shell over HTTP.
//
// Sessions are signed JWTs in an HttpOnly cookie; the principal's roles are
// re-read from the store on every request so role changes apply immediately.
// State-changing forms carry a double-submit CSRF token.
package console
