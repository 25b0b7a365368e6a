// ABOUTME: TOML plugin manifests and the page plugin they describe
// ABOUTME: Descriptions and section bodies are markdown rendered with goldmark

package plugin

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/a-h/templ"
	"github.com/yuin/goldmark"

	"github.com/2389/admin-shell/internal/auth"
	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/routepath"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Manifest is the on-disk description of a page plugin.
type Manifest struct {
	ID          string         `toml:"id"`
	Name        string         `toml:"name"`
	Version     string         `toml:"version"`
	Icon        string         `toml:"icon"`
	Description string         `toml:"description"`
	Menu        *ManifestMenu  `toml:"menu"`
	Config      map[string]any `toml:"config"`
}

// ManifestMenu declares the plugin's navigation link.
type ManifestMenu struct {
	LabelID     string             `toml:"label_id"`
	Label       string             `toml:"label"`
	Permissions auth.PermissionSet `toml:"permissions"`
}

// ParseManifest decodes a TOML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	// Keys under [config] land in a generic map and are checked later by
	// DecodeProps; toml still lists those inside arrays of tables as undecoded.
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] == "config" {
			continue
		}
		return nil, fmt.Errorf("parsing manifest: unknown key %s", key)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("%w: manifest has no id", ErrInvalidPluginID)
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return &m, nil
}

// LoadManifestFile reads and parses a manifest from disk.
func LoadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

type pageConfig struct {
	DefaultSection string        `props:"default_section"`
	Sections       []pageSection `props:"sections"`
}

type pageSection struct {
	ID    string `props:"id"`
	Title string `props:"title"`
	Body  string `props:"body"`
}

type renderedSection struct {
	ID    string
	Title string
	Body  template.HTML
}

// pagePlugin is a plugin whose pages are sections declared in its manifest.
type pagePlugin struct {
	id             string
	desc           Descriptor
	defaultSection string
	sections       []renderedSection
}

// FromManifest builds a page plugin from m.
func FromManifest(m *Manifest) (Plugin, error) {
	var cfg pageConfig
	if m.Config != nil {
		if err := DecodeProps(m.Config, &cfg); err != nil {
			return nil, fmt.Errorf("plugin %s config: %w", m.ID, err)
		}
	}

	desc, err := renderMarkdown(m.Description)
	if err != nil {
		return nil, fmt.Errorf("plugin %s description: %w", m.ID, err)
	}

	p := &pagePlugin{
		id: m.ID,
		desc: Descriptor{
			Name:        m.Name,
			Description: desc,
			Icon:        m.Icon,
			Version:     m.Version,
		},
		defaultSection: cfg.DefaultSection,
	}
	if m.Menu != nil {
		p.desc.Menu = &MenuEntry{
			Label:       i18n.Msg(m.Menu.LabelID, firstNonEmpty(m.Menu.Label, m.Name)),
			Permissions: m.Menu.Permissions,
		}
	}

	seen := make(map[string]bool, len(cfg.Sections))
	for _, s := range cfg.Sections {
		if s.ID == "" || seen[s.ID] {
			return nil, fmt.Errorf("plugin %s: invalid or duplicate section %q", m.ID, s.ID)
		}
		seen[s.ID] = true
		body, err := renderMarkdown(s.Body)
		if err != nil {
			return nil, fmt.Errorf("plugin %s section %s: %w", m.ID, s.ID, err)
		}
		p.sections = append(p.sections, renderedSection{ID: s.ID, Title: s.Title, Body: body})
	}
	if p.defaultSection == "" && len(p.sections) > 0 {
		p.defaultSection = p.sections[0].ID
	}
	return p, nil
}

func (p *pagePlugin) ID() string             { return p.id }
func (p *pagePlugin) Descriptor() Descriptor { return p.desc }

type sectionLink struct {
	Title  string
	Href   string
	Active bool
}

type pageView struct {
	ID       string
	Name     string
	Version  string
	Sections []sectionLink
	Current  *renderedSection
	Missing  string
}

// HasPage reports whether subPath names one of the plugin's sections. The
// plugin root always exists.
func (p *pagePlugin) HasPage(subPath string) bool {
	segs := Props{SubPath: subPath}.Segments()
	if len(segs) == 0 {
		return true
	}
	for _, s := range p.sections {
		if s.ID == segs[0] {
			return true
		}
	}
	return false
}

// Mount selects the section named by the first sub-path segment, or the
// default section at the plugin root.
func (p *pagePlugin) Mount(sc *Context, props Props) templ.Component {
	want := p.defaultSection
	if segs := props.Segments(); len(segs) > 0 {
		want = segs[0]
	}

	view := pageView{ID: p.id, Name: p.desc.Name, Version: p.desc.Version}
	for i := range p.sections {
		s := &p.sections[i]
		active := s.ID == want
		if active {
			view.Current = s
		}
		view.Sections = append(view.Sections, sectionLink{
			Title:  s.Title,
			Href:   routepath.Absolute(routepath.Plugin(p.id) + "/" + s.ID),
			Active: active,
		})
	}
	if view.Current == nil {
		view.Missing = sc.FormatMessage(i18n.Msg("app.components.NotFoundPage.description", "Not Found"))
	}
	return templ.FromGoHTML(pageTmpl, view)
}

func renderMarkdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// goldmark escapes raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil //nolint:gosec
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
