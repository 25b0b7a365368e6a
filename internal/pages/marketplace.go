// ABOUTME: Marketplace catalog of installable plugins
// ABOUTME: Loaded from an embedded TOML file with markdown descriptions

package pages

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/BurntSushi/toml"
	"github.com/yuin/goldmark"
)

//go:embed marketplace.toml
var marketplaceTOML string

// Listing is a plugin offered in the marketplace.
type Listing struct {
	ID          string
	Name        string
	Author      string
	Description template.HTML
}

type marketplaceFile struct {
	Plugins []struct {
		ID          string `toml:"id"`
		Name        string `toml:"name"`
		Author      string `toml:"author"`
		Description string `toml:"description"`
	} `toml:"plugins"`
}

// LoadMarketplace parses the embedded catalog.
func LoadMarketplace() ([]Listing, error) {
	return parseMarketplace(marketplaceTOML)
}

func parseMarketplace(src string) ([]Listing, error) {
	var f marketplaceFile
	if _, err := toml.Decode(src, &f); err != nil {
		return nil, fmt.Errorf("parsing marketplace: %w", err)
	}

	md := goldmark.New()
	out := make([]Listing, 0, len(f.Plugins))
	for _, p := range f.Plugins {
		var buf bytes.Buffer
		if err := md.Convert([]byte(p.Description), &buf); err != nil {
			return nil, fmt.Errorf("marketplace %s: %w", p.ID, err)
		}
		out = append(out, Listing{
			ID:          p.ID,
			Name:        p.Name,
			Author:      p.Author,
			Description: template.HTML(buf.String()), //nolint:gosec // goldmark escapes raw HTML
		})
	}
	return out, nil
}
