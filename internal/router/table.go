// ABOUTME: Ordered, immutable route table with first-match-wins resolution
// ABOUTME: Construction fails without a catch-all so every path resolves

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/plugin"
)

// ErrMissingCatchAll indicates a route table without the "" pattern.
var ErrMissingCatchAll = errors.New("route table has no catch-all route")

// ErrInvalidPattern indicates a malformed route pattern.
var ErrInvalidPattern = errors.New("invalid route pattern")

// Request is a single navigation.
type Request struct {
	Path      string
	Principal *auth.Principal
	// Params and Rest are filled from the matched route.
	Params map[string]string
	Rest   string
}

// Param returns a captured path parameter.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// Handler renders a matched route.
type Handler func(ctx context.Context, req *Request, sc *plugin.Context) (templ.Component, error)

// PermissionFunc computes a route's required permissions from the matched
// request, for routes whose requirement depends on a path parameter.
type PermissionFunc func(req *Request, sc *plugin.Context) auth.PermissionSet

// Route binds a pattern to a handler. Non-exact patterns match on whole
// segment prefixes.
type Route struct {
	Name        string
	Pattern     string
	Exact       bool
	Permissions auth.PermissionSet
	// PermissionsFor, when set, replaces Permissions.
	PermissionsFor PermissionFunc
	Handler        Handler
	// NotFound marks routes that render the not-found page. The catch-all is
	// always treated as one.
	NotFound bool
}

type compiledRoute struct {
	Route
	pattern pattern
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route
	Index  int
	Params map[string]string
	Rest   string
}

// Table is an ordered list of routes. It is immutable once built.
type Table struct {
	routes   []compiledRoute
	catchAll int
}

// NewTable validates and compiles routes.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{catchAll: -1}
	for i, r := range routes {
		if r.Handler == nil {
			return nil, fmt.Errorf("route %d (%q) has no handler", i, r.Pattern)
		}
		p, err := compilePattern(r.Pattern, r.Exact)
		if err != nil {
			return nil, err
		}
		if r.Name == "" {
			r.Name = r.Pattern
		}
		t.routes = append(t.routes, compiledRoute{Route: r, pattern: p})
		if t.catchAll < 0 && p.isCatchAll() {
			t.catchAll = i
		}
	}
	if t.catchAll < 0 {
		return nil, ErrMissingCatchAll
	}
	for _, r := range t.routes[t.catchAll+1:] {
		slog.Default().Warn("route is unreachable after the catch-all", "component", "router", "pattern", r.Pattern)
	}
	return t, nil
}

// Resolve returns the first route matching path. It always succeeds.
func (t *Table) Resolve(path string) Match {
	segs := splitPath(path)
	for i, r := range t.routes[:t.catchAll+1] {
		if params, rest, ok := r.pattern.match(segs); ok {
			return Match{Route: r.Route, Index: i, Params: params, Rest: rest}
		}
	}
	// unreachable: the catch-all matches every path
	r := t.routes[t.catchAll]
	return Match{Route: r.Route, Index: t.catchAll, Rest: "/"}
}

// NotFound returns the catch-all route.
func (t *Table) NotFound() Route {
	return t.routes[t.catchAll].Route
}

// Routes returns a copy of the routes in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.Route
	}
	return out
}
