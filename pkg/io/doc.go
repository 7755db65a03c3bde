// Package io imports and exports menu trees as JSON, YAML or TOML files.
//
// # Overview
//
// Tree files let the CLI and tests render menus without a database, and let
// a menu be moved between data sources. A file holds one [Document]: the
// menu's identity plus its nested items.
//
// # JSON Format
//
//	{
//	  "id": 1,
//	  "slug": "main",
//	  "title": "Main menu",
//	  "items": [
//	    {"title": "Home", "url": "/"},
//	    {"title": "Blog", "url": "/blog", "expanded": true, "children": [
//	      {"title": "Archive", "url": "/blog/archive"}
//	    ]}
//	  ]
//	}
//
// JSON and YAML files may also contain a bare list of items.
//
// # TOML Format
//
//	slug = "main"
//
//	[[items]]
//	title = "Blog"
//	url = "/blog"
//	expanded = true
//
//	  [[items.children]]
//	  title = "Archive"
//	  url = "/blog/archive"
//
// # Item Fields
//
// Required:
//   - title: Display text
//
// Optional:
//   - url: Link target ("" renders as "#")
//   - description: Tooltip text
//   - target: Link target attribute, e.g. "_blank"
//   - expanded: Whether children are rendered
//   - children: Nested items
//   - id, menu_id, parent_id: Identifiers kept for round trips
//
// # Usage
//
//	doc, err := io.Import("menu.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := renderer.Render(ctx, render.Items(doc.Items), render.Options{})
//
// The format is chosen from the file extension (.json, .yaml, .yml, .toml).
// [Read] and [Write] take the format explicitly.
package io
