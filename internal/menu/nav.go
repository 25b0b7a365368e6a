// ABOUTME: Left navigation built from the plugin registry and filtered per principal
// ABOUTME: Registers its re-layout callback in the menu Registry when mounted

package menu

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/routepath"
)

//go:embed templates/nav.html
var templateFS embed.FS

var navTmpl = template.Must(template.ParseFS(templateFS, "templates/nav.html"))

// Gatekeeper decides whether a principal may see a link.
type Gatekeeper interface {
	CanEnter(ctx context.Context, p *auth.Principal, perms auth.PermissionSet) bool
}

// Link is a single navigation entry.
type Link struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

// Section is a titled group of links.
type Section struct {
	Title string
	Links []Link
	// Empty is shown when Links is empty; sections without it are hidden.
	Empty string
}

type item struct {
	label  i18n.Descriptor
	path   string
	icon   string
	perms  auth.PermissionSet
	prefix bool
}

type layout struct {
	general  []item
	plugins  []item
	settings []item
}

// Navigation is the shell's left menu.
type Navigation struct {
	plugins   *plugin.Registry
	gate      Gatekeeper
	formatter i18n.Formatter
	logger    *slog.Logger

	mu         sync.RWMutex
	layout     layout
	generation int
}

// NewNavigation creates a navigation over the plugin registry.
func NewNavigation(plugins *plugin.Registry, gate Gatekeeper, formatter i18n.Formatter) *Navigation {
	if formatter == nil {
		formatter = i18n.Nop{}
	}
	return &Navigation{
		plugins:   plugins,
		gate:      gate,
		formatter: formatter,
		logger:    slog.Default().With("component", "navigation"),
	}
}

// Mount computes the initial layout and installs Relayout as the menu update callback.
func (n *Navigation) Mount(reg *Registry) {
	n.Relayout()
	reg.Register(n.Relayout)
}

// Unmount removes the update callback.
func (n *Navigation) Unmount(reg *Registry) {
	reg.Clear()
}

// Relayout recomputes the menu items from the plugin registry.
func (n *Navigation) Relayout() {
	l := layout{
		general: []item{
			{label: i18n.Msg("app.components.LeftMenuLinkContainer.home", "Home"), path: routepath.Home, icon: "home"},
			{label: i18n.Msg("app.components.LeftMenuLinkContainer.listPlugins", "Plugins"), path: routepath.ListPlugins, icon: "puzzle-piece", perms: auth.MarketplaceMain},
			{label: i18n.Msg("app.components.LeftMenuLinkContainer.installNewPlugin", "Marketplace"), path: routepath.Marketplace, icon: "shopping-basket", perms: auth.MarketplaceMain},
		},
		settings: []item{
			{label: i18n.Msg("app.components.LeftMenu.settings", "Settings"), path: routepath.Settings, icon: "cog", perms: auth.SettingsMain, prefix: true},
		},
	}

	if n.plugins != nil {
		for _, p := range n.plugins.List() {
			d := p.Descriptor()
			if d.Menu == nil {
				continue
			}
			l.plugins = append(l.plugins, item{
				label:  d.Menu.Label,
				path:   routepath.Plugin(p.ID()),
				icon:   d.Icon,
				perms:  d.Menu.Permissions,
				prefix: true,
			})
		}
	}

	n.mu.Lock()
	n.layout = l
	n.generation++
	gen := n.generation
	n.mu.Unlock()

	n.logger.Debug("menu relayout", "generation", gen, "plugin_links", len(l.plugins))
}

// Generation counts completed re-layouts.
func (n *Navigation) Generation() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.generation
}

// Sections returns the menu visible to p, marking the link for activePath.
func (n *Navigation) Sections(ctx context.Context, p *auth.Principal, activePath string) []Section {
	n.mu.RLock()
	l := n.layout
	n.mu.RUnlock()

	return []Section{
		{
			Title: n.format("app.components.LeftMenu.general", "General"),
			Links: n.visible(ctx, p, l.general, activePath),
		},
		{
			Title: n.format("app.components.LeftMenu.plugins", "Plugins"),
			Links: n.visible(ctx, p, l.plugins, activePath),
			Empty: n.format("app.components.LeftMenuLinkContainer.noPluginsInstalled", "No plugins installed yet"),
		},
		{
			Title: n.format("app.components.LeftMenu.settings", "Settings"),
			Links: n.visible(ctx, p, l.settings, activePath),
		},
	}
}

type navView struct {
	Generation int
	HomeHref   string
	Sections   []Section
}

// Component renders the menu for p.
func (n *Navigation) Component(ctx context.Context, p *auth.Principal, activePath string) templ.Component {
	sections := n.Sections(ctx, p, activePath)
	visible := sections[:0]
	for _, s := range sections {
		if len(s.Links) > 0 || s.Empty != "" {
			visible = append(visible, s)
		}
	}
	return templ.FromGoHTML(navTmpl, navView{
		Generation: n.Generation(),
		HomeHref:   routepath.Absolute(routepath.Home),
		Sections:   visible,
	})
}

func (n *Navigation) visible(ctx context.Context, p *auth.Principal, items []item, activePath string) []Link {
	var out []Link
	for _, it := range items {
		if n.gate != nil && !n.gate.CanEnter(ctx, p, it.perms) {
			continue
		}
		out = append(out, Link{
			Label:  n.formatter.FormatMessage(it.label),
			Href:   routepath.Absolute(it.path),
			Icon:   it.icon,
			Active: isActive(it, activePath),
		})
	}
	return out
}

func (n *Navigation) format(id, def string) string {
	return n.formatter.FormatMessage(i18n.Msg(id, def))
}

func isActive(it item, activePath string) bool {
	if activePath == it.path {
		return true
	}
	return it.prefix && strings.HasPrefix(activePath, it.path+"/")
}
