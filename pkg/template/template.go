package template

import (
	"maps"
	"strings"

	"github.com/matzehuels/treemenu/pkg/errors"
)

// Template names used by the menu renderer.
const (
	Div    = "div"
	Root   = "root"
	Parent = "parent"
	Child  = "child"
	Link   = "link"
)

// Set maps template names to patterns.
type Set map[string]string

// Defaults returns the built-in menu templates.
func Defaults() Set {
	return Set{
		Div:    `<div{{attrs}}>{{content}}</div>`,
		Root:   `<ul{{attrs}}>{{content}}</ul>`,
		Parent: `<ul{{attrs}}>{{content}}</ul>`,
		Child:  `<li{{attrs}}>{{content}}{{children}}</li>`,
		Link:   `<a href="{{url}}"{{attrs}}><span>{{content}}</span></a>`,
	}
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

// Merge returns a copy of s with every pattern in override applied on top.
// Neither input is modified.
func (s Set) Merge(override Set) Set {
	out := s.Clone()
	maps.Copy(out, override)
	return out
}

// Validate checks that every pattern in the set is well formed.
func (s Set) Validate() error {
	for name, pattern := range s {
		if _, err := parse(pattern); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", name)
		}
	}
	return nil
}

// Format renders the named template with vars.
func (s Set) Format(name string, vars map[string]string) (string, error) {
	pattern, ok := s[name]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q", name)
	}
	parts, err := parse(pattern)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", name)
	}

	var b strings.Builder
	b.Grow(len(pattern))
	for _, p := range parts {
		if p.placeholder {
			b.WriteString(vars[p.text])
		} else {
			b.WriteString(p.text)
		}
	}
	return b.String(), nil
}

// Placeholders returns the placeholder names used by the named template,
// in order of appearance.
func (s Set) Placeholders(name string) []string {
	parts, err := parse(s[name])
	if err != nil {
		return nil
	}
	var names []string
	for _, p := range parts {
		if p.placeholder {
			names = append(names, p.text)
		}
	}
	return names
}

type part struct {
	text        string
	placeholder bool
}

// parse splits a pattern into literal and placeholder parts.
func parse(pattern string) ([]part, error) {
	var parts []part
	rest := pattern
	for {
		i := strings.Index(rest, "{{")
		if i < 0 {
			if rest != "" {
				parts = append(parts, part{text: rest})
			}
			return parts, nil
		}
		if i > 0 {
			parts = append(parts, part{text: rest[:i]})
		}
		rest = rest[i+2:]
		j := strings.Index(rest, "}}")
		if j < 0 {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "unclosed placeholder in %q", pattern)
		}
		name := rest[:j]
		if !validName(name) {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "invalid placeholder name %q", name)
		}
		parts = append(parts, part{text: name, placeholder: true})
		rest = rest[j+2:]
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
