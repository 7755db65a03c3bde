// Package pkg provides the libraries behind treemenu, a renderer for
// hierarchical navigation menus.
//
// # Overview
//
// A menu is a tree of links. The libraries load trees from a store or a
// file, cache them, and render them as nested HTML lists with active-trail
// detection, dropdown markup and column splitting.
//
// # Architecture
//
// The typical data flow:
//
//	Menu store (SQLite, MongoDB) or tree file (JSON, YAML, TOML)
//	         ↓
//	    [store] Loader (read-through cache, [cache])
//	         ↓
//	    [render] Renderer ([template], [link], [beautify])
//	         ↓
//	    HTML
//
// # Quick Start
//
//	src := store.NewMemorySource()
//	src.Add(1, "main", tree)
//
//	r := render.New(store.NewLoader(src, nil, nil, nil), link.PathResolver{Current: "/blog"}, nil)
//	html, err := r.Render(ctx, render.Slug("main"), render.Options{})
//
// # Main Packages
//
// [menu] - The Node and Tree types, traversal and threading of flat link
// records into trees.
//
// [render] - The menu renderer: configuration, per-call options, formatters
// and hooks.
//
// [template] - Placeholder templates and HTML attribute formatting.
//
// [link] - URL resolution and active-link detection.
//
// [beautify] - Pretty-printing of rendered HTML.
//
// [store] - Menu sources and the caching tree loader, with SQLite
// ([store/sqlstore]) and MongoDB ([store/mongostore]) backends.
//
// [cache] - Memory, file, Redis and null caches.
//
// [io] - Reading and writing tree files.
//
// [diagram] - Graphviz diagrams of menu trees.
//
// [config] - The TOML configuration file.
//
// [observability] - Render, cache and store hooks, with Prometheus metrics in
// [observability/prom].
//
// [errors] - Structured error codes.
package pkg
