// ABOUTME: Builds the frozen plugin registry from built-in and on-disk manifests
// ABOUTME: Runs once at startup; any manifest error halts initialization

package plugin

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Loader assembles a Registry.
type Loader struct {
	// Dir holds additional *.toml manifests. Empty means none.
	Dir string
	// SkipBuiltins leaves the embedded plugins out.
	SkipBuiltins bool
	// Disabled lists plugin ids to leave out.
	Disabled []string
	// Extra plugins registered after the manifests, for compiled-in extensions.
	Extra []Plugin
}

// Load registers every plugin and returns the frozen registry.
func (l Loader) Load() (*Registry, error) {
	logger := slog.Default().With("component", "plugin-loader")
	reg := NewRegistry()

	var manifests []*Manifest
	if !l.SkipBuiltins {
		ms, err := readManifests(builtinFS, "builtin")
		if err != nil {
			return nil, fmt.Errorf("loading builtin plugins: %w", err)
		}
		manifests = append(manifests, ms...)
	}
	if l.Dir != "" {
		ms, err := readManifests(os.DirFS(l.Dir), ".")
		if err != nil {
			return nil, fmt.Errorf("loading plugins from %s: %w", l.Dir, err)
		}
		manifests = append(manifests, ms...)
	}

	for _, m := range manifests {
		if slices.Contains(l.Disabled, m.ID) {
			logger.Info("plugin disabled", "plugin_id", m.ID)
			continue
		}
		p, err := FromManifest(m)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	for _, p := range l.Extra {
		if slices.Contains(l.Disabled, p.ID()) {
			continue
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}

	reg.Freeze()
	logger.Info("plugins loaded", "count", reg.Len())
	return reg, nil
}

func readManifests(fsys fs.FS, dir string) ([]*Manifest, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	out := make([]*Manifest, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		m, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, m)
	}
	return out, nil
}
