// ABOUTME: Thread-safe registry of plugins keyed by id
// ABOUTME: Populated by the loader, then frozen and read-only for the life of the server

package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
)

// ErrDuplicatePlugin indicates a plugin with the same id is already registered.
var ErrDuplicatePlugin = errors.New("plugin already registered")

// ErrRegistryFrozen indicates a registration after Freeze.
var ErrRegistryFrozen = errors.New("plugin registry is frozen")

// ErrInvalidPluginID indicates an id that cannot be used as a path segment.
var ErrInvalidPluginID = errors.New("invalid plugin id")

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Registry maps plugin ids to plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	frozen  bool
	logger  *slog.Logger
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		logger:  slog.Default().With("component", "plugins"),
	}
}

// Register adds p to the registry.
func (r *Registry) Register(p Plugin) error {
	id := p.ID()
	if !validID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidPluginID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, id)
	}
	if _, exists := r.plugins[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlugin, id)
	}
	r.plugins[id] = p

	r.logger.Debug("plugin registered",
		"plugin_id", id,
		"version", p.Descriptor().Version,
		"total_plugins", len(r.plugins),
	)
	return nil
}

// Freeze makes the registry read-only. Safe to call multiple times.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the plugin registered under id.
func (r *Registry) Lookup(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	return p, ok
}

// List returns all plugins ordered by id.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}
