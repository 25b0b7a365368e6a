// ABOUTME: Built-in console pages rendered inside the shell layout
// ABOUTME: Each page is a router handler returning a component over an embedded template

// Package pages implements the shell's own pages: home, profile, installed
// plugins, marketplace, settings, not-found and restricted.
package pages

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/routepath"
	"github.com/2389/admin-shell/internal/router"
	"github.com/2389/admin-shell/internal/store"
)

// EventMarketplaceVisited is emitted when the marketplace page renders.
const EventMarketplaceVisited = "didGoToMarketplace"

// ErrUnknownSetting indicates a settings section that does not exist.
var ErrUnknownSetting = errors.New("unknown settings section")

//go:embed templates/*.html
var templateFS embed.FS

var tmpls = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Pages renders the built-in pages.
type Pages struct {
	dispatcher  *plugin.Dispatcher
	users       store.UserStore
	marketplace []Listing
	logger      *slog.Logger
}

// New creates the page set. users may be nil, in which case the profile page
// shows only what the session carries.
func New(dispatcher *plugin.Dispatcher, users store.UserStore) (*Pages, error) {
	listings, err := LoadMarketplace()
	if err != nil {
		return nil, err
	}
	return &Pages{
		dispatcher:  dispatcher,
		users:       users,
		marketplace: listings,
		logger:      slog.Default().With("component", "pages"),
	}, nil
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(tmpls.Lookup(name), data)
}

type pluginLink struct {
	ID          string
	Name        string
	Version     string
	Description template.HTML
	Href        string
}

func pluginLinks(reg *plugin.Registry) []pluginLink {
	var out []pluginLink
	for _, p := range reg.List() {
		d := p.Descriptor()
		out = append(out, pluginLink{
			ID:          p.ID(),
			Name:        d.Name,
			Version:     d.Version,
			Description: d.Description,
			Href:        routepath.Absolute(routepath.Plugin(p.ID())),
		})
	}
	return out
}

type homeData struct {
	Welcome     string
	PluginCount string
	Plugins     []pluginLink
}

// Home renders the landing page.
func (p *Pages) Home(_ context.Context, req *router.Request, sc *plugin.Context) (templ.Component, error) {
	welcome := sc.FormatMessage(i18n.Msg("app.components.HomePage.welcome", "Welcome on board!"))
	if req.Principal != nil {
		name := req.Principal.DisplayName
		if name == "" {
			name = req.Principal.Username
		}
		if name != "" {
			welcome = sc.FormatMessage(i18n.Descriptor{
				ID:             "app.components.HomePage.welcome.again",
				DefaultMessage: "Welcome {name}!",
				Values:         map[string]any{"name": name},
			})
		}
	}

	return page("home.html", homeData{
		Welcome: welcome,
		PluginCount: sc.FormatMessage(i18n.Descriptor{
			ID:             "app.components.HomePage.pluginCount",
			DefaultMessage: "{count} plugins installed",
			Values:         map[string]any{"count": sc.Plugins().Len()},
		}),
		Plugins: pluginLinks(sc.Plugins()),
	}), nil
}

type profileData struct {
	Title       string
	Username    string
	DisplayName string
	Roles       []string
	MemberSince string
	Activity    []activityRow
}

type activityRow struct {
	When   string
	Action string
	From   string
}

// recentActivity is how many audit entries the profile lists.
const recentActivity = 5

// Profile renders the signed-in user's profile.
func (p *Pages) Profile(ctx context.Context, req *router.Request, sc *plugin.Context) (templ.Component, error) {
	principal := req.Principal
	if principal == nil {
		return nil, fmt.Errorf("profile: %w", auth.ErrNoPrincipal)
	}

	data := profileData{
		Title:       sc.FormatMessage(i18n.Msg("app.components.ProfilePage.title", "Profile")),
		Username:    principal.Username,
		DisplayName: principal.DisplayName,
		Roles:       principal.Roles,
	}
	if p.users != nil {
		user, err := p.users.GetUser(ctx, principal.ID)
		switch {
		case err == nil:
			data.DisplayName = user.DisplayName
			data.MemberSince = user.CreatedAt.Format("2006-01-02")
		case errors.Is(err, store.ErrUserNotFound):
		default:
			p.logger.Warn("profile lookup failed", "user_id", principal.ID, "error", err)
		}
	}
	if audit, ok := p.users.(store.AuditStore); ok {
		entries, err := audit.ListAudit(ctx, store.AuditFilter{UserID: principal.ID, Limit: recentActivity})
		if err != nil {
			p.logger.Warn("profile activity lookup failed", "user_id", principal.ID, "error", err)
		}
		for _, e := range entries {
			data.Activity = append(data.Activity, activityRow{
				When:   e.Timestamp.Format("2006-01-02 15:04"),
				Action: string(e.Action),
				From:   e.RemoteIP,
			})
		}
	}
	return page("profile.html", data), nil
}

// PluginPermissions returns the permissions guarding a plugin's pages: the
// same set that gates its navigation link.
func (p *Pages) PluginPermissions(req *router.Request, sc *plugin.Context) auth.PermissionSet {
	reg := sc.Plugins()
	if reg == nil {
		return nil
	}
	pl, ok := reg.Lookup(req.Param("pluginId"))
	if !ok {
		return nil
	}
	if m := pl.Descriptor().Menu; m != nil {
		return m.Permissions
	}
	return nil
}

// Plugin hands the request to the plugin dispatcher.
func (p *Pages) Plugin(ctx context.Context, req *router.Request, sc *plugin.Context) (templ.Component, error) {
	return p.dispatcher.Dispatch(ctx, req.Param("pluginId"), req.Rest, sc, plugin.Props{Params: req.Params})
}

type listingData struct {
	Title       string
	Description string
	Plugins     []pluginLink
}

// InstalledPlugins lists the registered plugins.
func (p *Pages) InstalledPlugins(_ context.Context, _ *router.Request, sc *plugin.Context) (templ.Component, error) {
	return page("installed.html", listingData{
		Title:       sc.FormatMessage(i18n.Msg("app.components.InstalledPluginsPage.title", "Plugins")),
		Description: sc.FormatMessage(i18n.Msg("app.components.InstalledPluginsPage.description", "List of the installed plugins in the project.")),
		Plugins:     pluginLinks(sc.Plugins()),
	}), nil
}

type marketplaceData struct {
	Title       string
	Description string
	Listings    []listingView
}

type listingView struct {
	Listing
	Installed bool
}

// Marketplace lists the plugins available for installation.
func (p *Pages) Marketplace(_ context.Context, _ *router.Request, sc *plugin.Context) (templ.Component, error) {
	sc.EmitEvent(EventMarketplaceVisited, nil)

	views := make([]listingView, 0, len(p.marketplace))
	for _, l := range p.marketplace {
		_, installed := sc.Plugins().Lookup(l.ID)
		views = append(views, listingView{Listing: l, Installed: installed})
	}
	return page("marketplace.html", marketplaceData{
		Title:       sc.FormatMessage(i18n.Msg("app.components.MarketplacePage.title", "Marketplace")),
		Description: sc.FormatMessage(i18n.Msg("app.components.MarketplacePage.description", "Discover plugins built by the community.")),
		Listings:    views,
	}), nil
}

type notFoundData struct {
	Description string
	Back        string
	HomeHref    string
}

// NotFound renders the not-found page.
func (p *Pages) NotFound(_ context.Context, _ *router.Request, sc *plugin.Context) (templ.Component, error) {
	return page("notfound.html", notFoundData{
		Description: sc.FormatMessage(i18n.Msg("app.components.NotFoundPage.description", "Not Found")),
		Back:        sc.FormatMessage(i18n.Msg("app.components.NotFoundPage.back", "Back to homepage")),
		HomeHref:    routepath.Absolute(routepath.Home),
	}), nil
}

// Restricted renders the permission-denied fallback.
func Restricted(sc *plugin.Context) templ.Component {
	return page("restricted.html", struct{ Description string }{
		Description: sc.FormatMessage(i18n.Msg("app.components.RestrictedPage.description", "You don't have the permissions to access this page.")),
	})
}
