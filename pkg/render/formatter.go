package render

import (
	"context"
	"html"

	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/template"
)

// Info describes a node's place in the menu being rendered.
type Info struct {
	// Index is the 1-based position of the node in a pre-order walk of
	// the whole tree. It does not restart per level or per split group.
	Index int

	// Total is the number of visible nodes in the tree.
	Total int

	// Depth is the nesting level, 0 for top-level nodes.
	Depth int

	// Active reports whether the node links to the current page.
	Active bool

	// HasChildren reports whether Children is non-empty.
	HasChildren bool

	// Children is the rendered markup of the node's subtree, already
	// wrapped in the parent template.
	Children string

	// URL is the node's resolved link URL.
	URL string
}

// First reports whether the node is the first item of the menu.
func (i Info) First() bool { return i.Index == 1 }

// Last reports whether the node is the last item of the menu.
func (i Info) Last() bool { return i.Index == i.Total }

// Formatter renders a single node. Implementations receive the context of
// the render in progress and must pass it on to anything that may render
// menus itself. Loop detection is carried by that context: a Render call
// made with a fresh context starts an independent render, and one that
// renders the same menu again recurses without bound.
type Formatter func(ctx context.Context, n *menu.Node, info Info) (string, error)

// ItemOptions adjust how the default formatter renders one item.
type ItemOptions struct {
	// Templates override templates for this item only.
	Templates template.Set

	// ChildAttrs are extra attributes of the child element.
	ChildAttrs template.Attrs

	// LinkAttrs are extra attributes of the link element.
	LinkAttrs template.Attrs
}

// DefaultFormatter renders a node with the child and link templates and
// decorates them with the configured classes. Format hooks registered on
// the renderer run first.
//
// Called outside of a render it uses DefaultConfig and resolves URLs
// unchanged.
func DefaultFormatter(ctx context.Context, n *menu.Node, info Info) (string, error) {
	st := stateFrom(ctx)
	item := ItemOptions{}
	if st != nil && st.renderer != nil && len(st.renderer.formatHooks) > 0 {
		// Hooks get a copy so they cannot alter the caller's tree.
		cp := *n
		n = &cp
		for _, h := range st.renderer.formatHooks {
			if err := h(ctx, n, &info, &item); err != nil {
				return "", err
			}
		}
	}
	return FormatItem(ctx, n, info, item)
}

// FormatItem renders a node like DefaultFormatter, with per-item options
// but without running format hooks.
func FormatItem(ctx context.Context, n *menu.Node, info Info, item ItemOptions) (string, error) {
	cfg := DefaultConfig()
	if st := stateFrom(ctx); st != nil {
		cfg = st.cfg
	}
	tpl := cfg.Templates
	if len(item.Templates) > 0 {
		tpl = tpl.Merge(item.Templates)
	}

	childAttrs, linkAttrs := itemAttrs(cfg, n, info, item)

	url := info.URL
	if url == "" {
		url = n.URL
	}
	content, err := tpl.Format(template.Link, map[string]string{
		"url":     html.EscapeString(url),
		"attrs":   template.FormatAttributes(linkAttrs),
		"content": html.EscapeString(n.Title),
	})
	if err != nil {
		return "", err
	}
	return tpl.Format(template.Child, map[string]string{
		"attrs":    template.FormatAttributes(childAttrs),
		"content":  content,
		"children": info.Children,
	})
}

// itemAttrs builds the child and link attributes of a node.
func itemAttrs(cfg Config, n *menu.Node, info Info, item ItemOptions) (child, link template.Attrs) {
	child = item.ChildAttrs.Clone()
	link = item.LinkAttrs.Clone()

	if info.First() {
		child.AddClass(cfg.FirstClass)
	}
	if info.Last() {
		child.AddClass(cfg.LastClass)
	}
	if info.HasChildren {
		child.AddClass(cfg.HasChildrenClass)
		if cfg.Dropdown {
			child.AddClass(dropdownClass)
			link["data-toggle"] = dropdownClass
		}
	}
	if n.Description != "" {
		link["title"] = n.Description
	}
	if n.Target != "" {
		link["target"] = n.Target
	}
	if info.Active {
		child.AddClass(cfg.ActiveClass)
		link.AddClass(cfg.ActiveClass)
	}
	return child, link
}
