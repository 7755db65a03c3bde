package render

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/menu"
)

// Input identifies the tree to render. It is one of [ID], [Slug], [Items]
// or [Seq].
type Input interface {
	// Ref returns a short label used in logs and metrics.
	Ref() string

	isInput()
}

// ID renders the menu with this ID.
type ID int64

// Slug renders the menu with this slug.
type Slug string

// Items renders an already materialized tree.
type Items menu.Tree

// Seq renders the top-level nodes yielded by an iterator.
type Seq iter.Seq[*menu.Node]

func (i ID) Ref() string   { return strconv.FormatInt(int64(i), 10) }
func (s Slug) Ref() string { return string(s) }
func (Items) Ref() string  { return "tree" }
func (Seq) Ref() string    { return "seq" }

func (ID) isInput()    {}
func (Slug) isInput()  {}
func (Items) isInput() {}
func (Seq) isInput()   {}

// ParseRef interprets a menu reference from a URL or command line: digits
// select a menu by ID, anything else by slug.
func ParseRef(ref string) Input {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return ID(id)
	}
	return Slug(ref)
}

// InputOf converts a dynamically typed value into an Input. Integers become
// IDs, strings become slugs, and trees, node slices, iterators and raw
// records (see menu.FromRecords) become Items.
func InputOf(v any) (Input, error) {
	switch x := v.(type) {
	case Input:
		return x, nil
	case int:
		return ID(x), nil
	case int64:
		return ID(x), nil
	case string:
		return Slug(x), nil
	case menu.Tree:
		return Items(x), nil
	case []*menu.Node:
		return Items(x), nil
	case iter.Seq[*menu.Node]:
		return Seq(x), nil
	case nil:
		return Items(nil), nil
	case []map[string]any, []any:
		return Items(menu.FromRecords(x)), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "cannot render %T", v)
}

// TreeLoader loads menu trees by ID or slug. store.Loader implements it.
type TreeLoader interface {
	TreeByID(ctx context.Context, id int64) (menu.Tree, error)
	TreeBySlug(ctx context.Context, slug string) (menu.Tree, error)
}

// Load resolves an input to a tree. IDs and slugs go through the renderer's
// loader; trees and iterators are used as given.
func (r *Renderer) Load(ctx context.Context, in Input) (menu.Tree, error) {
	switch x := in.(type) {
	case nil:
		return nil, nil
	case Items:
		return menu.Tree(x), nil
	case Seq:
		if x == nil {
			return nil, nil
		}
		return menu.Collect(iter.Seq[*menu.Node](x)), nil
	case ID:
		if r.Loader == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "cannot load menu %d: no loader configured", int64(x))
		}
		return r.Loader.TreeByID(ctx, int64(x))
	case Slug:
		if r.Loader == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "cannot load menu %q: no loader configured", string(x))
		}
		return r.Loader.TreeBySlug(ctx, string(x))
	}
	return nil, fmt.Errorf("unsupported input %T", in)
}
