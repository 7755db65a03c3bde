package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// FromRecord converts a loosely typed record into a Node.
//
// Recognized keys are id, menu_id, parent_id, title, url, description,
// target, expanded and children. Missing keys and values of an unexpected
// type fall back to zero values; this function never fails so that a sparse
// record still renders.
func FromRecord(rec map[string]any) *Node {
	if rec == nil {
		return &Node{}
	}
	n := &Node{
		ID:          toInt(rec["id"]),
		MenuID:      toInt(rec["menu_id"]),
		ParentID:    toInt(rec["parent_id"]),
		Title:       toString(rec["title"]),
		URL:         toString(rec["url"]),
		Description: toString(rec["description"]),
		Target:      toString(rec["target"]),
		Expanded:    toBool(rec["expanded"]),
	}
	n.Children = FromRecords(rec["children"])
	return n
}

// FromRecords converts a list of records into a Tree. It accepts
// []map[string]any, []any holding maps, and an existing Tree or []*Node.
// Anything else yields an empty tree.
func FromRecords(v any) Tree {
	switch recs := v.(type) {
	case Tree:
		return recs
	case []*Node:
		return Tree(recs)
	case []map[string]any:
		out := make(Tree, 0, len(recs))
		for _, r := range recs {
			out = append(out, FromRecord(r))
		}
		return out
	case []any:
		out := make(Tree, 0, len(recs))
		for _, r := range recs {
			switch rr := r.(type) {
			case map[string]any:
				out = append(out, FromRecord(rr))
			case *Node:
				if rr != nil {
					out = append(out, rr)
				}
			}
		}
		return out
	}
	return nil
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	case int, int32, int64, float64, bool:
		return fmt.Sprint(s)
	}
	return ""
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err == nil {
			return i
		}
	}
	return 0
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}
