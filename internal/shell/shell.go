// ABOUTME: Shell root: composes navigation, router, gate and plugin dispatch into one page
// ABOUTME: Owns the shared context and the mount/render/unmount lifecycle

// Package shell is the root of the administration console.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/a-h/templ"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/gate"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/identity"
	"github.com/2389/admin-shell/internal/menu"
	"github.com/2389/admin-shell/internal/pages"
	"github.com/2389/admin-shell/internal/plugin"
	"github.com/2389/admin-shell/internal/router"
	"github.com/2389/admin-shell/internal/store"
	"github.com/2389/admin-shell/internal/telemetry"
)

// ErrInvalidState indicates a lifecycle call out of order.
var ErrInvalidState = errors.New("invalid shell state")

// State is the shell lifecycle state.
type State int

const (
	Uninitialized State = iota
	Mounted
	Rendering
	Unmounted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Mounted:
		return "mounted"
	case Rendering:
		return "rendering"
	case Unmounted:
		return "unmounted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures New.
type Options struct {
	Identity      identity.Identity
	Emitter       *telemetry.Emitter
	Plugins       *plugin.Registry
	Authorizer    auth.Authorizer
	Formatter     i18n.Formatter
	Users         store.UserStore
	ProjectType   string
	ShowTutorials bool
	Locale        string
	Title         string
}

// Request is one navigation through the shell.
type Request struct {
	Path      string
	Principal *auth.Principal
	CSRFToken string
}

// Page is a rendered navigation ready to be written.
type Page struct {
	Component templ.Component
	Status    int
	Outcome   router.Outcome
	Route     string
}

// Shell composes the console.
type Shell struct {
	mu    sync.RWMutex
	state State

	menus     *menu.Registry
	nav       *menu.Navigation
	router    *router.Router
	sc        *plugin.Context
	emitter   *telemetry.Emitter
	formatter i18n.Formatter
	tutorials bool
	locale    string
	title     string
	logger    *slog.Logger
}

// New wires the shell. The plugin registry must already be frozen.
func New(opts Options) (*Shell, error) {
	if opts.Plugins == nil || !opts.Plugins.Frozen() {
		return nil, errors.New("shell: plugin registry must be loaded and frozen")
	}
	if opts.Authorizer == nil {
		return nil, errors.New("shell: authorizer is required")
	}
	if opts.Formatter == nil {
		opts.Formatter = i18n.Nop{}
	}
	if opts.Title == "" {
		opts.Title = "Administration panel"
	}

	s := &Shell{
		menus:     menu.NewRegistry(),
		emitter:   opts.Emitter,
		formatter: opts.Formatter,
		tutorials: opts.ShowTutorials,
		locale:    opts.Locale,
		title:     opts.Title,
		logger:    slog.Default().With("component", "shell"),
	}

	s.sc = plugin.NewContext(plugin.ContextOptions{
		Emit:       s.emitter.Emit,
		Formatter:  opts.Formatter,
		Plugins:    opts.Plugins,
		UpdateMenu: s.menus.Invoke,
		Settings: plugin.Settings{
			InstallationID:   opts.Identity.UUID,
			ProjectType:      opts.ProjectType,
			ShowTutorials:    opts.ShowTutorials,
			Locale:           opts.Locale,
			TelemetryEnabled: opts.Identity.Enabled(),
		},
	})

	g := gate.New(opts.Authorizer)
	s.nav = menu.NewNavigation(opts.Plugins, g, opts.Formatter)

	p, err := pages.New(plugin.NewDispatcher(opts.Plugins), opts.Users)
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	table, err := router.NewTable(Routes(p))
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	s.router = router.New(table, g, pages.Restricted(s.sc))

	return s, nil
}

// Context returns the shared context handed to pages and plugins.
func (s *Shell) Context() *plugin.Context {
	return s.sc
}

// State returns the current lifecycle state.
func (s *Shell) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mount mounts the navigation.
func (s *Shell) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Uninitialized {
		return fmt.Errorf("%w: mount from %s", ErrInvalidState, s.state)
	}

	s.nav.Mount(s.menus)
	s.state = Mounted

	s.logger.Info("shell mounted",
		"plugins", s.sc.Plugins().Len(),
		"telemetry", s.emitter.Enabled(),
	)
	return nil
}

// RecordAccess reports that a user entered the administration. Call it once
// per sign-in, not per page.
func (s *Shell) RecordAccess() {
	s.sc.EmitEvent(telemetry.EventAccessedAdministration, nil)
}

// Unmount removes the navigation's menu callback. Renders fail afterwards.
func (s *Shell) Unmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Mounted && s.state != Rendering {
		return fmt.Errorf("%w: unmount from %s", ErrInvalidState, s.state)
	}

	s.nav.Unmount(s.menus)
	s.state = Unmounted
	s.logger.Info("shell unmounted")
	return nil
}

// UpdateMenu asks the navigation to re-layout.
func (s *Shell) UpdateMenu() {
	s.menus.Invoke()
}

// Render resolves a navigation and wraps it in the layout.
func (s *Shell) Render(ctx context.Context, req Request) (Page, error) {
	s.mu.Lock()
	switch s.state {
	case Mounted:
		s.state = Rendering
	case Rendering:
	default:
		state := s.state
		s.mu.Unlock()
		return Page{}, fmt.Errorf("%w: render from %s", ErrInvalidState, state)
	}
	s.mu.Unlock()

	res := s.router.Render(ctx, router.Request{Path: req.Path, Principal: req.Principal}, s.sc)

	return Page{
		Component: layout{
			nav:       s.nav.Component(ctx, req.Principal, req.Path),
			content:   res.Component,
			principal: req.Principal,
			csrfToken: req.CSRFToken,
			tutorials: s.tutorials,
			formatter: s.formatter,
			lang:      s.lang(),
			title:     s.title,
		},
		Status:  res.Outcome.Status(),
		Outcome: res.Outcome,
		Route:   res.Match.Route.Name,
	}, nil
}

func (s *Shell) lang() string {
	if s.locale == "" {
		return i18n.DefaultLocale
	}
	return s.locale
}
