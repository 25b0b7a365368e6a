// ABOUTME: Plugin contract and descriptor types
// ABOUTME: Descriptors feed the navigation and the installed-plugins listing

package plugin

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
)

// Plugin is an extension mounted by the shell under /plugins/{id}.
type Plugin interface {
	ID() string
	Descriptor() Descriptor
	Mount(sc *Context, props Props) templ.Component
}

// PageResolver is implemented by plugins that know which sub-paths they serve.
// The dispatcher reports ErrPageNotFound for the others instead of mounting.
type PageResolver interface {
	HasPage(subPath string) bool
}

// Descriptor is the static metadata of a plugin.
type Descriptor struct {
	Name        string
	Description template.HTML
	Icon        string
	Version     string
	// Menu is nil for plugins without a navigation link.
	Menu *MenuEntry
}

// MenuEntry is a plugin's link in the navigation's Plugins section.
type MenuEntry struct {
	Label       i18n.Descriptor
	Permissions auth.PermissionSet
}
