package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treemenu/pkg/menu"
)

// Options configures diagram generation.
type Options struct {
	// Title labels the root node. Defaults to "menu".
	Title string

	// Detailed adds the URL and link ID to node labels.
	// When false, only the title is shown.
	Detailed bool

	// Collapsed draws the children of collapsed items as well.
	Collapsed bool
}

// ToDOT converts a menu tree to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Nodes are named by their pre-order position, so trees without link IDs
// (imported from files) produce valid graphs too.
func ToDOT(t menu.Tree, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "menu"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  root [label=%q, shape=ellipse, fillcolor=lightgrey];\n", title)

	w := &writer{buf: &buf, opts: opts}
	w.level("root", t, false)

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *writer) level(parent string, t menu.Tree, hidden bool) {
	for _, n := range t {
		if n == nil {
			continue
		}
		name := "n" + strconv.Itoa(w.next)
		w.next++

		attrs := fmtAttrs(n, fmtLabel(n, w.opts.Detailed), hidden)
		fmt.Fprintf(w.buf, "  %s [%s];\n", name, strings.Join(attrs, ", "))
		if hidden {
			fmt.Fprintf(w.buf, "  %s -> %s [style=dashed];\n", parent, name)
		} else {
			fmt.Fprintf(w.buf, "  %s -> %s;\n", parent, name)
		}

		switch {
		case n.Expandable():
			w.level(name, n.Children, hidden)
		case n.HasChildren() && w.opts.Collapsed:
			w.level(name, n.Children, true)
		}
	}
}

func fmtLabel(n *menu.Node, detailed bool) string {
	if !detailed {
		return n.Title
	}
	parts := []string{n.Title}
	if n.URL != "" {
		parts = append(parts, n.URL)
	}
	if n.ID != 0 {
		parts = append(parts, fmt.Sprintf("id: %d", n.ID))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *menu.Node, label string, hidden bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Description))
	}
	if hidden {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header (pt units, translated
// viewBox) with a plain pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
