// ABOUTME: The shell's route table in match order
// ABOUTME: /404 precedes the catch-all so it stays reachable

package shell

import (
	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/pages"
	"github.com/2389/admin-shell/internal/routepath"
	"github.com/2389/admin-shell/internal/router"
)

// Routes returns the console routes backed by p.
func Routes(p *pages.Pages) []router.Route {
	return []router.Route{
		{Name: "home", Pattern: routepath.Home, Exact: true, Handler: p.Home},
		{Name: "profile", Pattern: routepath.Profile, Handler: p.Profile},
		{Name: "plugin", Pattern: routepath.Plugins + "/:pluginId", PermissionsFor: p.PluginPermissions, Handler: p.Plugin},
		{Name: "list-plugins", Pattern: routepath.ListPlugins, Exact: true, Permissions: auth.MarketplaceMain, Handler: p.InstalledPlugins},
		{Name: "marketplace", Pattern: routepath.Marketplace, Permissions: auth.MarketplaceMain, Handler: p.Marketplace},
		{Name: "setting", Pattern: routepath.Settings + "/:settingId", Permissions: auth.SettingsMain, Handler: p.Settings},
		{Name: "settings", Pattern: routepath.Settings, Exact: true, Permissions: auth.SettingsMain, Handler: p.Settings},
		{Name: "404", Pattern: routepath.NotFound, NotFound: true, Handler: p.NotFound},
		{Name: "not-found", Pattern: "", Handler: p.NotFound},
	}
}
