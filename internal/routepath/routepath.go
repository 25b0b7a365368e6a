// ABOUTME: Canonical console paths shared by the route table, navigation and handlers
// ABOUTME: Keeps link construction and route patterns in one place

// Package routepath defines the shell's navigation paths.
package routepath

import (
	"net/url"
	"strings"
)

// Prefix is where the shell is mounted on the HTTP server.
const Prefix = "/admin"

// Shell-relative paths.
const (
	Home        = "/"
	Profile     = "/me"
	Plugins     = "/plugins"
	ListPlugins = "/list-plugins"
	Marketplace = "/marketplace"
	Settings    = "/settings"
	NotFound    = "/404"
)

// Console paths outside the shell.
const (
	Login  = Prefix + "/auth/login"
	Logout = Prefix + "/auth/logout"
	Static = Prefix + "/static/"
)

// Plugin returns the shell path of a plugin's root page.
func Plugin(id string) string {
	return Plugins + "/" + url.PathEscape(id)
}

// Setting returns the shell path of a settings section.
func Setting(id string) string {
	return Settings + "/" + url.PathEscape(id)
}

// Absolute prefixes a shell path with the console mount point.
func Absolute(p string) string {
	if p == "" || p == Home {
		return Prefix + "/"
	}
	return Prefix + p
}

// Relative strips the console prefix from an absolute request path.
// Paths outside the prefix are returned unchanged.
func Relative(p string) string {
	if p == Prefix {
		return Home
	}
	if rest, ok := strings.CutPrefix(p, Prefix+"/"); ok {
		return "/" + rest
	}
	return p
}
