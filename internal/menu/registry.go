// ABOUTME: Single-slot registry holding the navigation's re-layout callback
// ABOUTME: Components that change the menu's inputs call Invoke to refresh it

// Package menu implements the left navigation and the slot through which other
// components ask it to re-layout.
package menu

import "sync"

// Registry holds at most one update callback. The last Register wins. A nil
// Registry reads as an empty slot; only Register needs a real one.
type Registry struct {
	mu sync.RWMutex
	fn func()
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register replaces the current callback. A nil fn empties the slot.
func (r *Registry) Register(fn func()) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

// Clear empties the slot.
func (r *Registry) Clear() {
	if r == nil {
		return
	}
	r.Register(nil)
}

// Invoke calls the current callback, if any. The callback runs outside the
// lock so it may itself Register or Clear.
func (r *Registry) Invoke() {
	if r == nil {
		return
	}
	r.mu.RLock()
	fn := r.fn
	r.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// Registered reports whether a callback is currently installed.
func (r *Registry) Registered() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fn != nil
}
