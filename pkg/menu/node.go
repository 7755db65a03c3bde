package menu

import "iter"

// Node is a single menu entry.
//
// Optional fields default to their zero value: an empty Description means
// no tooltip, an empty Target means no target attribute, and Expanded=false
// hides any children from traversal.
type Node struct {
	ID          int64   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	MenuID      int64   `json:"menu_id,omitempty" yaml:"menu_id,omitempty" toml:"menu_id,omitempty"`
	ParentID    int64   `json:"parent_id,omitempty" yaml:"parent_id,omitempty" toml:"parent_id,omitempty"`
	Title       string  `json:"title" yaml:"title" toml:"title"`
	URL         string  `json:"url" yaml:"url" toml:"url"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Target      string  `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Expanded    bool    `json:"expanded,omitempty" yaml:"expanded,omitempty" toml:"expanded,omitempty"`
	Children    []*Node `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Tree is an ordered list of top-level menu nodes.
type Tree []*Node

// HasChildren reports whether the node has at least one child,
// regardless of its Expanded flag.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Expandable reports whether the node's children take part in traversal:
// the node must be expanded and have children.
func (n *Node) Expandable() bool {
	return n != nil && n.Expanded && len(n.Children) > 0
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, n := range t {
		out[i] = n.Clone()
	}
	return out
}

// Empty reports whether the tree has no top-level nodes.
func (t Tree) Empty() bool {
	return len(t) == 0
}

// Count returns the number of visitable nodes in the tree.
// A node's children are only counted when the node is [Node.Expandable].
func Count(t Tree) int {
	total := 0
	for _, n := range t {
		if n == nil {
			continue
		}
		total++
		if n.Expandable() {
			total += Count(n.Children)
		}
	}
	return total
}

// Walk visits every visitable node in depth-first pre-order, passing the
// node and its 0-based depth. Children of collapsed nodes are skipped.
// Returning false from fn stops the walk.
func Walk(t Tree, fn func(n *Node, depth int) bool) {
	walk(t, 0, fn)
}

func walk(t Tree, depth int, fn func(n *Node, depth int) bool) bool {
	for _, n := range t {
		if n == nil {
			continue
		}
		if !fn(n, depth) {
			return false
		}
		if n.Expandable() && !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// All returns an iterator over every node in the tree in pre-order,
// including children of collapsed nodes.
func (t Tree) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var visit func(Tree) bool
		visit = func(level Tree) bool {
			for _, n := range level {
				if n == nil {
					continue
				}
				if !yield(n) || !visit(n.Children) {
					return false
				}
			}
			return true
		}
		visit(t)
	}
}

// Collect materializes a sequence of top-level nodes into a Tree.
func Collect(seq iter.Seq[*Node]) Tree {
	var t Tree
	for n := range seq {
		if n != nil {
			t = append(t, n)
		}
	}
	return t
}

// Find returns the first node (in pre-order) with the given ID.
func (t Tree) Find(id int64) *Node {
	for n := range t.All() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// SetExpanded sets the Expanded flag on every node in the tree that has
// children. It is used by tools that want to show the full structure.
func (t Tree) SetExpanded(expanded bool) {
	for n := range t.All() {
		if n.HasChildren() {
			n.Expanded = expanded
		}
	}
}
