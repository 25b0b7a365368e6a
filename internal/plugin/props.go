// ABOUTME: Route props forwarded to a mounted plugin
// ABOUTME: DecodeProps maps loosely typed tables onto plugin-specific structs

package plugin

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Props are the route properties a plugin is mounted with.
type Props struct {
	PluginID string
	// SubPath is the remainder of the path after /plugins/{id}, always starting with "/".
	SubPath string
	Params  map[string]string
}

// Segments returns the non-empty segments of SubPath.
func (p Props) Segments() []string {
	var out []string
	for _, s := range strings.Split(p.SubPath, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DecodeProps decodes a loosely typed value (typically a TOML or JSON table)
// into out, converting scalar types where the target field requires it.
func DecodeProps(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "props",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("building props decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decoding props: %w", err)
	}
	return nil
}
