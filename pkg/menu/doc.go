// Package menu defines the menu tree data model.
//
// # Overview
//
// A menu is an ordered tree of links. Each [Node] carries the fields a
// renderer needs (title, URL, tooltip, target) plus the Expanded flag that
// decides whether its children are traversed at all. A [Tree] is simply the
// ordered list of top-level nodes; traversal order is insertion order.
//
// # Building Trees
//
// Trees arrive in three shapes:
//
//   - Already nested, e.g. decoded from JSON/YAML (see package io)
//   - Flat rows with parent IDs, as returned by SQL or document stores;
//     [Thread] nests them the way an ORM "threaded" finder does
//   - Loosely typed records (map[string]any); [FromRecords] converts them
//     once into typed nodes, defaulting missing or malformed fields
//
// # Counting
//
// [Count] returns the number of visitable nodes: children of a node are only
// counted when the node is expanded and actually has children. This is the
// same rule the renderer uses when deciding what to draw.
//
// Trees are assumed to be acyclic; nothing in this package checks for cycles.
package menu
