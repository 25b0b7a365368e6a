// ABOUTME: Message formatting backed by x/text catalogs loaded from YAML locale files
// ABOUTME: Resolves message descriptors with English fallback and {name} interpolation

// Package i18n provides the formatMessage collaborator passed through the shell.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured and for missing keys.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Descriptor identifies a message and its interpolation values.
type Descriptor struct {
	ID             string
	DefaultMessage string
	Values         map[string]any
}

// Msg is shorthand for a descriptor without values.
func Msg(id, defaultMessage string) Descriptor {
	return Descriptor{ID: id, DefaultMessage: defaultMessage}
}

// Formatter turns descriptors into display strings.
type Formatter interface {
	FormatMessage(d Descriptor) string
}

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog formats messages for a single locale.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]struct{}
}

// Load builds a catalog for locale from the embedded locale files.
func Load(locale string) (*Catalog, error) {
	return LoadFS(embeddedLocales, "locales", locale)
}

// LoadFS builds a catalog for locale from the *.yaml files in dir.
func LoadFS(fsys fs.FS, dir, locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files in %s", dir)
	}

	defaultTag := language.MustParse(DefaultLocale)
	wantBase, _ := tag.Base()

	// Default-locale messages first, then the requested locale on top.
	messages := make(map[string]string)
	var overlay map[string]string
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		fileTag, err := language.Parse(f.Locale)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid locale %q: %w", p, f.Locale, err)
		}
		if fileTag == defaultTag {
			for id, msg := range f.Messages {
				messages[id] = msg
			}
		}
		if base, _ := fileTag.Base(); base == wantBase {
			overlay = f.Messages
		}
	}
	for id, msg := range overlay {
		messages[id] = msg
	}

	builder := catalog.NewBuilder(catalog.Fallback(defaultTag))
	known := make(map[string]struct{}, len(messages))
	for id, msg := range messages {
		// The printer treats stored messages as format strings.
		if err := builder.SetString(tag, id, strings.ReplaceAll(msg, "%", "%%")); err != nil {
			return nil, fmt.Errorf("message %s: %w", id, err)
		}
		known[id] = struct{}{}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		known:   known,
	}, nil
}

// Locale returns the catalog's language tag.
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// FormatMessage resolves d in the catalog's locale. Unknown ids fall back to
// the descriptor's default message, then to the id itself.
func (c *Catalog) FormatMessage(d Descriptor) string {
	text := d.DefaultMessage
	if _, ok := c.known[d.ID]; ok {
		text = c.printer.Sprintf(d.ID)
	}
	if text == "" {
		text = d.ID
	}
	if len(d.Values) == 0 {
		return text
	}

	pairs := make([]string, 0, len(d.Values)*2)
	for name, v := range d.Values {
		pairs = append(pairs, "{"+name+"}", c.printer.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Nop is a Formatter that returns the default message (or id) unchanged.
type Nop struct{}

// FormatMessage implements Formatter.
func (Nop) FormatMessage(d Descriptor) string {
	if d.DefaultMessage != "" {
		return d.DefaultMessage
	}
	return d.ID
}
