package render

import (
	"github.com/matzehuels/treemenu/pkg/beautify"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/template"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultActiveClass marks items that point at the current page.
	DefaultActiveClass = "active"

	// DefaultFirstClass marks the first item of the menu.
	DefaultFirstClass = "first-item"

	// DefaultLastClass marks the last item of the menu.
	DefaultLastClass = "last-item"

	// DefaultHasChildrenClass marks items with rendered children.
	DefaultHasChildrenClass = "has-children"
)

// Classes used when dropdown mode is enabled.
const (
	dropdownClass     = "dropdown"
	dropdownMenuClass = "dropdown-menu multi-level"
)

// DefaultTemplates returns the built-in template set.
func DefaultTemplates() template.Set {
	return template.Defaults()
}

// =============================================================================
// Config
// =============================================================================

// Config controls a single render call.
type Config struct {
	// Formatter converts one node into markup. Nil means DefaultFormatter.
	Formatter Formatter `json:"-" toml:"-"`

	// Beautify is a pretty-print directive applied to the final markup.
	// Empty disables beautification; "1" or "true" selects "1t0n".
	Beautify string `json:"beautify,omitempty" toml:"beautify"`

	// Dropdown adds the classes and toggle attributes used by dropdown menus.
	Dropdown bool `json:"dropdown,omitempty" toml:"dropdown"`

	ActiveClass      string `json:"active_class,omitempty" toml:"active_class"`
	FirstClass       string `json:"first_class,omitempty" toml:"first_class"`
	LastClass        string `json:"last_class,omitempty" toml:"last_class"`
	HasChildrenClass string `json:"has_children_class,omitempty" toml:"has_children_class"`

	// Split renders the top-level items as Split separate groups.
	// Values below 2 disable splitting.
	Split int `json:"split,omitempty" toml:"split"`

	// BreadcrumbGuessing also marks items active when they point at a page
	// of the current breadcrumb trail.
	BreadcrumbGuessing bool `json:"breadcrumb_guessing" toml:"breadcrumb_guessing"`

	// Templates overrides built-in templates by name.
	Templates template.Set `json:"templates,omitempty" toml:"templates"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		ActiveClass:        DefaultActiveClass,
		FirstClass:         DefaultFirstClass,
		LastClass:          DefaultLastClass,
		HasChildrenClass:   DefaultHasChildrenClass,
		BreadcrumbGuessing: true,
		Templates:          DefaultTemplates(),
	}
}

// ValidateAndSetDefaults checks the configuration and fills in the default
// formatter and any template missing from Templates. Class names are kept
// as given, so an empty class name disables that class.
// This method is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}
	if c.Split < 0 {
		return errs.New(errs.ErrCodeInvalidOption, "split must not be negative, got %d", c.Split)
	}
	switch c.Beautify {
	case "false", "0":
		c.Beautify = ""
	case "true":
		c.Beautify = beautify.DefaultDirective
	}
	if c.Formatter == nil {
		c.Formatter = DefaultFormatter
	}
	c.Templates = DefaultTemplates().Merge(c.Templates)
	if err := c.Templates.Validate(); err != nil {
		return err
	}
	c.validated = true
	return nil
}

// Splitting reports whether the top-level items are rendered in groups.
func (c Config) Splitting() bool {
	return c.Split >= 2
}

// =============================================================================
// Partial
// =============================================================================

// Partial holds configuration overrides. Nil fields leave the base
// configuration untouched. Templates are merged by name.
type Partial struct {
	Formatter          Formatter
	Beautify           *string
	Dropdown           *bool
	ActiveClass        *string
	FirstClass         *string
	LastClass          *string
	HasChildrenClass   *string
	Split              *int
	BreadcrumbGuessing *bool
	Templates          template.Set
}

// Apply returns base with the overrides of p applied. base is not modified.
func (p Partial) Apply(base Config) Config {
	out := base
	out.validated = false
	out.Templates = base.Templates.Merge(p.Templates)
	if p.Formatter != nil {
		out.Formatter = p.Formatter
	}
	setIf(&out.Beautify, p.Beautify)
	setIf(&out.Dropdown, p.Dropdown)
	setIf(&out.ActiveClass, p.ActiveClass)
	setIf(&out.FirstClass, p.FirstClass)
	setIf(&out.LastClass, p.LastClass)
	setIf(&out.HasChildrenClass, p.HasChildrenClass)
	setIf(&out.Split, p.Split)
	setIf(&out.BreadcrumbGuessing, p.BreadcrumbGuessing)
	return out
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v. It is a convenience for building a Partial.
func Ptr[T any](v T) *T {
	return &v
}
