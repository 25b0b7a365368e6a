// ABOUTME: Shared context handed to every mounted plugin
// ABOUTME: Built once at the shell root and read-only afterwards

package plugin

import (
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/telemetry"
)

// Settings are the global settings visible to plugins.
type Settings struct {
	InstallationID   string
	ProjectType      string
	ShowTutorials    bool
	Locale           string
	TelemetryEnabled bool
}

// ContextOptions configures NewContext. Nil collaborators are replaced by no-ops.
type ContextOptions struct {
	Emit       func(event string, props telemetry.Properties)
	Formatter  i18n.Formatter
	Plugins    *Registry
	UpdateMenu func()
	Settings   Settings
}

// Context is the bundle of capabilities shared with plugins and pages.
type Context struct {
	emit       func(event string, props telemetry.Properties)
	formatter  i18n.Formatter
	plugins    *Registry
	updateMenu func()
	settings   Settings
}

// NewContext builds an immutable Context.
func NewContext(opts ContextOptions) *Context {
	c := &Context{
		emit:       opts.Emit,
		formatter:  opts.Formatter,
		plugins:    opts.Plugins,
		updateMenu: opts.UpdateMenu,
		settings:   opts.Settings,
	}
	if c.emit == nil {
		c.emit = func(string, telemetry.Properties) {}
	}
	if c.formatter == nil {
		c.formatter = i18n.Nop{}
	}
	if c.plugins == nil {
		c.plugins = NewRegistry()
		c.plugins.Freeze()
	}
	if c.updateMenu == nil {
		c.updateMenu = func() {}
	}
	return c
}

// EmitEvent sends a best-effort analytics event.
func (c *Context) EmitEvent(event string, props telemetry.Properties) {
	c.emit(event, props)
}

// FormatMessage resolves a message descriptor in the shell's locale.
func (c *Context) FormatMessage(d i18n.Descriptor) string {
	return c.formatter.FormatMessage(d)
}

// Plugins returns the frozen plugin registry.
func (c *Context) Plugins() *Registry {
	return c.plugins
}

// UpdateMenu asks the navigation to re-layout. No-op before it has mounted.
func (c *Context) UpdateMenu() {
	c.updateMenu()
}

// Settings returns a copy of the global settings.
func (c *Context) Settings() Settings {
	return c.settings
}
