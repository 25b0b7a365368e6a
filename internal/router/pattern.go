// ABOUTME: Route pattern compilation and segment matching
// ABOUTME: Literal segments match case-insensitively; :name segments capture parameters

package router

import (
	"fmt"
	"regexp"
	"strings"
)

var paramName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type segment struct {
	literal string
	param   string
}

type pattern struct {
	raw      string
	segments []segment
	exact    bool
}

func compilePattern(raw string, exact bool) (pattern, error) {
	p := pattern{raw: raw, exact: exact}
	if raw == "" {
		return p, nil
	}
	if !strings.HasPrefix(raw, "/") {
		return p, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}

	seen := make(map[string]bool)
	trimmed := strings.TrimSuffix(raw[1:], "/")
	if trimmed == "" {
		return p, nil
	}
	for _, s := range strings.Split(trimmed, "/") {
		switch {
		case s == "":
			return p, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, raw)
		case strings.HasPrefix(s, ":"):
			name := s[1:]
			if !paramName.MatchString(name) {
				return p, fmt.Errorf("%w: %q has invalid parameter %q", ErrInvalidPattern, raw, s)
			}
			if seen[name] {
				return p, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPattern, raw, name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
		default:
			p.segments = append(p.segments, segment{literal: s})
		}
	}
	return p, nil
}

// splitPath returns the non-empty segments of a request path.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// match reports whether segs satisfy p. It returns captured parameters and the
// unmatched remainder, which always starts with "/".
func (p pattern) match(segs []string) (map[string]string, string, bool) {
	if len(segs) < len(p.segments) {
		return nil, "", false
	}
	if p.exact && len(segs) != len(p.segments) {
		return nil, "", false
	}

	var params map[string]string
	for i, s := range p.segments {
		if s.param != "" {
			if params == nil {
				params = make(map[string]string)
			}
			params[s.param] = segs[i]
			continue
		}
		if !strings.EqualFold(s.literal, segs[i]) {
			return nil, "", false
		}
	}
	return params, "/" + strings.Join(segs[len(p.segments):], "/"), true
}

func (p pattern) isCatchAll() bool {
	return p.raw == "" && !p.exact
}
