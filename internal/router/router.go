// ABOUTME: Gated route rendering over a Table
// ABOUTME: Denials render the fallback; handler errors render the catch-all not-found route

// Package router resolves navigation paths to page components.
package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/2389/admin-shell/internal/gate"
	"github.com/2389/admin-shell/internal/plugin"
)

// Outcome classifies a render.
type Outcome int

const (
	Rendered Outcome = iota
	Denied
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case Denied:
		return "denied"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Status maps the outcome to an HTTP status code.
func (o Outcome) Status() int {
	switch o {
	case Denied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

// Result is a rendered navigation.
type Result struct {
	Component templ.Component
	Match     Match
	Outcome   Outcome
}

// Router renders navigations through the permission gate.
type Router struct {
	table    *Table
	gate     *gate.Gate
	fallback templ.Component
	notFound templ.Component
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New creates a router. fallback is shown on permission denial.
func New(table *Table, g *gate.Gate, fallback templ.Component) *Router {
	if fallback == nil {
		fallback = templ.Raw(`<p>Forbidden</p>`)
	}
	return &Router{
		table:    table,
		gate:     g,
		fallback: fallback,
		notFound: templ.Raw(`<h1>Not Found</h1>`),
		tracer:   otel.Tracer("github.com/2389/admin-shell/internal/router"),
		logger:   slog.Default().With("component", "router"),
	}
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// Render resolves req.Path and renders the matched route.
func (r *Router) Render(ctx context.Context, req Request, sc *plugin.Context) Result {
	m := r.table.Resolve(req.Path)

	ctx, span := r.tracer.Start(ctx, "router.render", trace.WithAttributes(
		attribute.String("route.pattern", m.Route.Pattern),
		attribute.String("route.name", m.Route.Name),
	))
	defer span.End()

	req.Params = m.Params
	req.Rest = m.Rest

	outcome := Rendered
	if m.Index == r.table.catchAll || m.Route.NotFound {
		outcome = NotFound
	}

	perms := m.Route.Permissions
	if m.Route.PermissionsFor != nil {
		perms = m.Route.PermissionsFor(&req, sc)
	}

	comp, entered, err := r.gate.Guard(ctx, req.Principal, perms, r.fallback, func() (templ.Component, error) {
		return m.Route.Handler(ctx, &req, sc)
	})
	if !entered {
		outcome = Denied
	}
	if err != nil {
		r.logger.Info("route failed, rendering not found",
			"path", req.Path,
			"route", m.Route.Name,
			"error", err,
		)
		comp, outcome = r.renderNotFound(ctx, req, sc), NotFound
	}
	if comp == nil {
		comp, outcome = r.renderNotFound(ctx, req, sc), NotFound
	}

	span.SetAttributes(attribute.String("route.outcome", outcome.String()))
	return Result{Component: comp, Match: m, Outcome: outcome}
}

func (r *Router) renderNotFound(ctx context.Context, req Request, sc *plugin.Context) templ.Component {
	nf := r.table.NotFound()
	req.Params, req.Rest = nil, req.Path
	comp, err := nf.Handler(ctx, &req, sc)
	if err != nil || comp == nil {
		r.logger.Warn("not-found route failed", "error", err)
		return r.notFound
	}
	return comp
}
