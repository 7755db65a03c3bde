package menu

// Link is a flat menu link row as stored by a data source.
// Rows reference their parent through ParentID; zero means top level.
type Link struct {
	ID          int64
	MenuID      int64
	ParentID    int64
	Title       string
	URL         string
	Description string
	Target      string
	Expanded    bool
	Lft         int
}

// Node converts the row into a childless Node.
func (l Link) Node() *Node {
	return &Node{
		ID:          l.ID,
		MenuID:      l.MenuID,
		ParentID:    l.ParentID,
		Title:       l.Title,
		URL:         l.URL,
		Description: l.Description,
		Target:      l.Target,
		Expanded:    l.Expanded,
	}
}

// Thread nests flat rows into a tree.
//
// A row whose ParentID is zero, or refers to a row not present in links,
// becomes a top-level node. Siblings keep the order they have in links, so
// callers should pass rows already sorted (e.g. by Lft).
func Thread(links []Link) Tree {
	nodes := make(map[int64]*Node, len(links))
	ordered := make([]*Node, 0, len(links))
	for _, l := range links {
		n := l.Node()
		ordered = append(ordered, n)
		if l.ID != 0 {
			nodes[l.ID] = n
		}
	}

	var roots Tree
	for _, n := range ordered {
		parent, ok := nodes[n.ParentID]
		if n.ParentID == 0 || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}
