// ABOUTME: Package plugin defines the extension contract, the frozen registry and the dispatcher
// ABOUTME: Plugins are loaded from built-in and on-disk TOML manifests before serving starts

// Package plugin holds everything on the plugin side of the shell boundary.
//
// A Plugin is identified by a stable id and mounted with a shared Context that
// carries the event emitter, the i18n formatter, the registry itself, the menu
// update function and the global settings. The Registry is populated by a Loader
// and frozen before the first request; the Dispatcher resolves ids against it and
// renders the mounted component, turning unknown ids and plugin faults into
// ErrPluginNotFound and ErrPluginFault.
package plugin
