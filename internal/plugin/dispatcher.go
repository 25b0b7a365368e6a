// ABOUTME: Resolves a plugin id against the frozen registry and renders its mounted component
// ABOUTME: Unknown ids and plugin panics surface as sentinel errors for the not-found page

package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPluginNotFound indicates no plugin is registered under the requested id.
var ErrPluginNotFound = errors.New("plugin not found")

// ErrPageNotFound indicates a registered plugin has no page at the requested sub-path.
var ErrPageNotFound = errors.New("plugin page not found")

// ErrPluginFault indicates a plugin panicked or failed while mounting or rendering.
var ErrPluginFault = errors.New("plugin fault")

// Dispatcher mounts plugins by id.
type Dispatcher struct {
	registry *Registry
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		tracer:   otel.Tracer("github.com/2389/admin-shell/internal/plugin"),
		logger:   slog.Default().With("component", "dispatcher"),
	}
}

// Dispatch mounts the plugin registered under pluginID with the shared context
// and route props, and renders it. The returned component replays the rendered
// output, so a faulty plugin never leaves a half-written page behind.
func (d *Dispatcher) Dispatch(ctx context.Context, pluginID, subPath string, sc *Context, props Props) (templ.Component, error) {
	ctx, span := d.tracer.Start(ctx, "plugin.dispatch",
		trace.WithAttributes(attribute.String("plugin.id", pluginID)))
	defer span.End()

	p, ok := d.registry.Lookup(pluginID)
	if !ok {
		span.SetStatus(codes.Error, "not found")
		return nil, fmt.Errorf("%w: %q", ErrPluginNotFound, pluginID)
	}

	if subPath == "" {
		subPath = "/"
	}
	if r, ok := p.(PageResolver); ok && !r.HasPage(subPath) {
		span.SetStatus(codes.Error, "page not found")
		return nil, fmt.Errorf("%w: %s%s", ErrPageNotFound, pluginID, subPath)
	}
	props.PluginID = pluginID
	props.SubPath = subPath

	html, err := d.render(ctx, p, sc, props)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fault")
		d.logger.Error("plugin failed to render",
			"plugin_id", pluginID,
			"sub_path", subPath,
			"error", err,
		)
		return nil, err
	}
	return templ.Raw(html), nil
}

func (d *Dispatcher) render(ctx context.Context, p Plugin, sc *Context, props Props) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrPluginFault, p.ID(), r)
		}
	}()

	comp := p.Mount(sc, props)
	if comp == nil {
		return "", fmt.Errorf("%w: %s mounted nothing", ErrPluginFault, p.ID())
	}

	var buf bytes.Buffer
	if err := comp.Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPluginFault, p.ID(), err)
	}
	return buf.String(), nil
}
