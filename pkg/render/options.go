package render

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/treemenu/pkg/beautify"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/link"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/template"
)

// Options are the per-call settings of [Renderer.Render].
type Options struct {
	// Config overrides the renderer's default configuration.
	Config Partial

	// Attrs are the HTML attributes of the outermost element (the root
	// template, or the div template when splitting).
	Attrs template.Attrs

	// Resolver resolves link URLs and active state for this call.
	// Nil uses the renderer's resolver.
	Resolver link.Resolver
}

// WithFormatter returns options that only replace the formatter.
func WithFormatter(f Formatter) Options {
	return Options{Config: Partial{Formatter: f}}
}

// Option keys recognized by ParseOptions. Every other key becomes a wrapper
// attribute.
const (
	KeyFormatter          = "formatter"
	KeyBeautify           = "beautify"
	KeyDropdown           = "dropdown"
	KeyActiveClass        = "activeClass"
	KeyFirstClass         = "firstClass"
	KeyLastClass          = "lastClass"
	KeyHasChildrenClass   = "hasChildrenClass"
	KeySplit              = "split"
	KeyBreadcrumbGuessing = "breadcrumbGuessing"
	KeyTemplates          = "templates"
)

// ParseOptions splits a loosely typed option map into configuration
// overrides and wrapper attributes.
//
// Keys named after a configuration field are consumed as configuration.
// "templates" must hold a map of template patterns and is merged into the
// template set. All remaining keys are stringified into attributes; nil
// values are dropped and string slices are joined with spaces.
func ParseOptions(m map[string]any) (Options, error) {
	var opts Options
	for key, v := range m {
		var err error
		switch key {
		case KeyFormatter:
			opts.Config.Formatter, err = toFormatter(v)
		case KeyBeautify:
			opts.Config.Beautify, err = toDirective(v)
		case KeyDropdown:
			opts.Config.Dropdown, err = toBool(v)
		case KeyBreadcrumbGuessing:
			opts.Config.BreadcrumbGuessing, err = toBool(v)
		case KeyActiveClass:
			opts.Config.ActiveClass, err = toClass(v)
		case KeyFirstClass:
			opts.Config.FirstClass, err = toClass(v)
		case KeyLastClass:
			opts.Config.LastClass, err = toClass(v)
		case KeyHasChildrenClass:
			opts.Config.HasChildrenClass, err = toClass(v)
		case KeySplit:
			opts.Config.Split, err = toSplit(v)
		case KeyTemplates:
			opts.Config.Templates, err = toTemplates(v)
		default:
			if s, ok := toAttr(v); ok {
				if opts.Attrs == nil {
					opts.Attrs = template.Attrs{}
				}
				opts.Attrs[key] = s
			}
		}
		if err != nil {
			return Options{}, errs.Wrap(errs.ErrCodeInvalidOption, err, "option %q", key)
		}
	}
	return opts, nil
}

func toFormatter(v any) (Formatter, error) {
	switch f := v.(type) {
	case nil:
		return nil, nil
	case Formatter:
		return f, nil
	case func(context.Context, *menu.Node, Info) (string, error):
		return f, nil
	}
	return nil, fmt.Errorf("expected func(context.Context, *menu.Node, Info) (string, error), got %T", v)
}

func toDirective(v any) (*string, error) {
	switch d := v.(type) {
	case nil:
		return Ptr(""), nil
	case bool:
		if d {
			return Ptr(beautify.DefaultDirective), nil
		}
		return Ptr(""), nil
	case string:
		if _, err := beautify.ParseDirective(d); err != nil {
			return nil, err
		}
		return Ptr(d), nil
	}
	return nil, fmt.Errorf("expected bool or directive string, got %T", v)
}

func toBool(v any) (*bool, error) {
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	}
	return nil, fmt.Errorf("expected bool, got %T", v)
}

func toClass(v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		return Ptr(""), nil
	case string:
		return &s, nil
	case []string:
		return Ptr(strings.Join(s, " ")), nil
	}
	return nil, fmt.Errorf("expected class name, got %T", v)
}

func toSplit(v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return Ptr(0), nil
	case bool:
		if n {
			return nil, fmt.Errorf("split must be false or a number of groups")
		}
		return Ptr(0), nil
	case int:
		return checkSplit(int64(n))
	case int32:
		return checkSplit(int64(n))
	case int64:
		return checkSplit(n)
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("split must be a whole number, got %v", n)
		}
		return checkSplit(int64(n))
	case string:
		if n == "" || n == "false" {
			return Ptr(0), nil
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, err
		}
		return checkSplit(parsed)
	}
	return nil, fmt.Errorf("expected number of groups, got %T", v)
}

func checkSplit(n int64) (*int, error) {
	if n < 0 || n > math.MaxInt32 {
		return nil, fmt.Errorf("split out of range: %d", n)
	}
	return Ptr(int(n)), nil
}

func toTemplates(v any) (template.Set, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case template.Set:
		return t.Clone(), nil
	case map[string]string:
		return template.Set(t).Clone(), nil
	case map[string]any:
		set := make(template.Set, len(t))
		for name, p := range t {
			s, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("template %q: expected string, got %T", name, p)
			}
			set[name] = s
		}
		return set, nil
	}
	return nil, fmt.Errorf("expected a map of templates, got %T", v)
}

func toAttr(v any) (string, bool) {
	switch a := v.(type) {
	case nil:
		return "", false
	case string:
		return a, true
	case []string:
		return strings.Join(a, " "), true
	case fmt.Stringer:
		return a.String(), true
	}
	return fmt.Sprint(v), true
}
