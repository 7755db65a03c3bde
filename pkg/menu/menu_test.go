package menu

import (
	"slices"
	"testing"
)

func sample() Tree {
	return Tree{
		{ID: 1, Title: "Home", URL: "/"},
		{ID: 2, Title: "Blog", URL: "/blog", Expanded: true, Children: []*Node{
			{ID: 3, Title: "Go", URL: "/blog/go"},
			{ID: 4, Title: "Rust", URL: "/blog/rust", Children: []*Node{
				{ID: 5, Title: "Hidden", URL: "/blog/rust/hidden"},
			}},
		}},
		{ID: 6, Title: "About", URL: "/about", Children: []*Node{
			{ID: 7, Title: "Team", URL: "/about/team"},
		}},
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
		want int
	}{
		{"empty", nil, 0},
		{"flat", Tree{{ID: 1}, {ID: 2}}, 2},
		{"collapsed children excluded", sample(), 5},
		{"nil entries skipped", Tree{nil, {ID: 1}}, 1},
		{"expanded without children", Tree{{ID: 1, Expanded: true}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.tree); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWalkPreOrder(t *testing.T) {
	var ids []int64
	var depths []int
	Walk(sample(), func(n *Node, depth int) bool {
		ids = append(ids, n.ID)
		depths = append(depths, depth)
		return true
	})

	if want := []int64{1, 2, 3, 4, 6}; !slices.Equal(ids, want) {
		t.Errorf("Walk ids = %v, want %v", ids, want)
	}
	if want := []int{0, 0, 1, 1, 0}; !slices.Equal(depths, want) {
		t.Errorf("Walk depths = %v, want %v", depths, want)
	}
}

func TestWalkStops(t *testing.T) {
	visited := 0
	Walk(sample(), func(n *Node, depth int) bool {
		visited++
		return n.ID != 2
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func TestAllIncludesCollapsed(t *testing.T) {
	var ids []int64
	for n := range sample().All() {
		ids = append(ids, n.ID)
	}
	if want := []int64{1, 2, 3, 4, 5, 6, 7}; !slices.Equal(ids, want) {
		t.Errorf("All ids = %v, want %v", ids, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	c[1].Children[0].Title = "changed"
	c[1].Expanded = false

	if orig[1].Children[0].Title != "Go" {
		t.Error("Clone should not share child nodes")
	}
	if !orig[1].Expanded {
		t.Error("Clone should not share top-level nodes")
	}
}

func TestFind(t *testing.T) {
	tree := sample()
	if n := tree.Find(5); n == nil || n.Title != "Hidden" {
		t.Errorf("Find(5) = %v, want Hidden", n)
	}
	if n := tree.Find(99); n != nil {
		t.Errorf("Find(99) = %v, want nil", n)
	}
}

func TestSetExpanded(t *testing.T) {
	tree := sample()
	tree.SetExpanded(true)
	if Count(tree) != 7 {
		t.Errorf("Count after expanding all = %d, want 7", Count(tree))
	}
	if tree[0].Expanded {
		t.Error("leaf nodes should not be marked expanded")
	}
}

func TestThread(t *testing.T) {
	links := []Link{
		{ID: 1, Title: "Home", Lft: 1},
		{ID: 2, Title: "Blog", Expanded: true, Lft: 2},
		{ID: 3, ParentID: 2, Title: "Go", Lft: 3},
		{ID: 4, ParentID: 2, Title: "Rust", Lft: 4},
		{ID: 5, ParentID: 42, Title: "Orphan", Lft: 5},
	}

	tree := Thread(links)
	if len(tree) != 3 {
		t.Fatalf("roots = %d, want 3", len(tree))
	}
	if tree[2].Title != "Orphan" {
		t.Errorf("orphan should become a root, got %q", tree[2].Title)
	}
	blog := tree[1]
	if len(blog.Children) != 2 || blog.Children[0].Title != "Go" || blog.Children[1].Title != "Rust" {
		t.Errorf("blog children = %+v", blog.Children)
	}
	if !blog.Expanded {
		t.Error("Expanded flag should be preserved")
	}
}

func TestFromRecord(t *testing.T) {
	rec := map[string]any{
		"id":          float64(7),
		"title":       "Docs",
		"url":         "/docs",
		"description": "Read the docs",
		"expanded":    "1",
		"children": []any{
			map[string]any{"id": "8", "title": "API", "url": "/docs/api"},
			"ignored",
		},
	}

	n := FromRecord(rec)
	if n.ID != 7 || n.Title != "Docs" || n.Description != "Read the docs" {
		t.Errorf("FromRecord = %+v", n)
	}
	if !n.Expanded {
		t.Error("expanded \"1\" should be true")
	}
	if len(n.Children) != 1 || n.Children[0].ID != 8 {
		t.Errorf("children = %+v", n.Children)
	}
}

func TestFromRecordSparse(t *testing.T) {
	n := FromRecord(map[string]any{"title": 42, "expanded": []int{1}, "target": nil})
	if n.Title != "42" {
		t.Errorf("Title = %q, want \"42\"", n.Title)
	}
	if n.Expanded {
		t.Error("malformed expanded should default to false")
	}
	if n.Target != "" || n.Children != nil {
		t.Errorf("sparse record should default empty fields, got %+v", n)
	}

	if FromRecord(nil) == nil {
		t.Error("FromRecord(nil) should return an empty node")
	}
}

func TestFromRecordsShapes(t *testing.T) {
	tree := Tree{{ID: 1}}
	if got := FromRecords(tree); len(got) != 1 {
		t.Errorf("FromRecords(Tree) len = %d", len(got))
	}
	if got := FromRecords([]map[string]any{{"id": 1}, {"id": 2}}); len(got) != 2 {
		t.Errorf("FromRecords([]map) len = %d", len(got))
	}
	if got := FromRecords("nope"); got != nil {
		t.Errorf("FromRecords(string) = %v, want nil", got)
	}
}

func TestCollect(t *testing.T) {
	tree := Collect(slices.Values([]*Node{{ID: 1}, nil, {ID: 2}}))
	if len(tree) != 2 {
		t.Errorf("Collect len = %d, want 2", len(tree))
	}
}
