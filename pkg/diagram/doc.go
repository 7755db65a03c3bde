// Package diagram draws menu trees as node-link diagrams.
//
// # Overview
//
// A menu tree is converted to Graphviz DOT source with [ToDOT] and rendered
// in-process to SVG with [RenderSVG]. Each menu item becomes a rounded box
// connected to its parent; top-level items hang off a single root node
// labeled with the menu title.
//
// # Usage
//
//	dot := diagram.ToDOT(tree, diagram.Options{Title: "main", Detailed: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// # Options
//
//   - Title: label of the root node (defaults to "menu")
//   - Detailed: include URL and link ID in node labels
//   - Collapsed: also draw the children of collapsed items, with dashed
//     outlines and grey fill
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package diagram
