package render

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemenu/pkg/beautify"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/link"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/observability"
	"github.com/matzehuels/treemenu/pkg/template"
)

// Renderer renders menus.
//
// The Renderer holds only collaborators and defaults. Per-call state lives
// in the call itself, so multiple goroutines can safely share one Renderer.
type Renderer struct {
	// Loader resolves ID and Slug inputs. It may be nil when only
	// materialized trees are rendered.
	Loader TreeLoader

	// Resolver resolves link URLs and active state when the options of a
	// call do not carry their own.
	Resolver link.Resolver

	// Beautifier pretty-prints output when Beautify is set.
	Beautifier beautify.Beautifier

	// Defaults is the configuration that per-call options override.
	Defaults Config

	Logger *log.Logger

	renderHooks []RenderHook
	formatHooks []FormatHook
}

// New creates a renderer with the default configuration.
// If resolver is nil, URLs are used unchanged and nothing is active.
// If logger is nil, log output is discarded.
func New(loader TreeLoader, resolver link.Resolver, logger *log.Logger) *Renderer {
	if resolver == nil {
		resolver = link.PathResolver{}
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{
		Loader:     loader,
		Resolver:   resolver,
		Beautifier: beautify.Default,
		Defaults:   DefaultConfig(),
		Logger:     logger,
	}
}

// state is the per-call render context. Its presence in a context marks a
// render in progress.
type state struct {
	renderer *Renderer
	cfg      Config
	resolver link.Resolver
	index    int
	total    int
}

type stateKey struct{}

func stateFrom(ctx context.Context) *state {
	st, _ := ctx.Value(stateKey{}).(*state)
	return st
}

// Rendering reports whether ctx belongs to a render in progress.
func Rendering(ctx context.Context) bool {
	return stateFrom(ctx) != nil
}

// Render renders the menu identified by in.
//
// An empty tree, including a slug that does not resolve, renders as "".
// Calling Render with a context handed out by a render in progress fails
// with RENDER_LOOP. On error no partial output is returned.
func (r *Renderer) Render(ctx context.Context, in Input, opts Options) (string, error) {
	if Rendering(ctx) {
		return "", errs.New(errs.ErrCodeRenderLoop, "loop detected: menu already rendering")
	}

	ref := "nil"
	if in != nil {
		ref = in.Ref()
	}
	start := time.Now()
	observability.Render().OnRenderStart(ctx, ref)

	st := &state{renderer: r}
	out, err := r.render(context.WithValue(ctx, stateKey{}, st), st, in, opts)
	duration := time.Since(start)
	observability.Render().OnRenderComplete(ctx, ref, st.total, duration, err)

	if err != nil {
		r.Logger.Debug("render failed", "ref", ref, "error", err)
		return "", err
	}
	r.Logger.Debug("rendered menu",
		"ref", ref,
		"items", st.total,
		"split", st.cfg.Split,
		"bytes", len(out),
		"duration", duration)
	return out, nil
}

func (r *Renderer) render(ctx context.Context, st *state, in Input, opts Options) (string, error) {
	for _, h := range r.renderHooks {
		if err := h(ctx, &in, &opts); err != nil {
			return "", err
		}
	}

	cfg := opts.Config.Apply(r.Defaults)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	st.cfg = cfg
	st.resolver = opts.Resolver
	if st.resolver == nil {
		st.resolver = r.Resolver
	}
	if st.resolver == nil {
		st.resolver = link.PathResolver{}
	}

	tree, err := r.Load(ctx, in)
	if err != nil {
		return "", err
	}
	tree = slices.DeleteFunc(slices.Clone(tree), func(n *menu.Node) bool { return n == nil })
	st.total = CountItems(tree)
	if st.total == 0 {
		return "", nil
	}

	var out string
	if cfg.Splitting() {
		out, err = st.split(ctx, tree, opts.Attrs)
	} else {
		out, err = st.root(ctx, tree, opts.Attrs)
	}
	if err != nil {
		return "", err
	}

	if cfg.Beautify != "" {
		b := r.Beautifier
		if b == nil {
			b = beautify.Default
		}
		if out, err = b.Beautify(out, cfg.Beautify); err != nil {
			return "", err
		}
	}
	return out, nil
}

// CountItems returns the number of visible nodes: every top-level node plus,
// recursively, the children of expanded nodes.
func CountItems(t menu.Tree) int {
	return menu.Count(t)
}

func (st *state) root(ctx context.Context, tree menu.Tree, attrs template.Attrs) (string, error) {
	content, err := st.level(ctx, tree, 0)
	if err != nil {
		return "", err
	}
	return st.cfg.Templates.Format(template.Root, map[string]string{
		"attrs":   template.FormatAttributes(attrs),
		"content": content,
	})
}

// split renders the top-level nodes in contiguous groups of
// ceil(len(tree)/Split) nodes.
func (st *state) split(ctx context.Context, tree menu.Tree, attrs template.Attrs) (string, error) {
	n := st.cfg.Split
	size := (len(tree) + n - 1) / n

	var b strings.Builder
	for i, part := 0, 1; i < len(tree); i, part = i+size, part+1 {
		chunk := tree[i:min(i+size, len(tree))]
		content, err := st.level(ctx, chunk, 0)
		if err != nil {
			return "", err
		}
		group, err := st.cfg.Templates.Format(template.Parent, map[string]string{
			"attrs":   template.FormatAttributes(template.Attrs{"class": "menu-part part-" + strconv.Itoa(part)}),
			"content": content,
		})
		if err != nil {
			return "", err
		}
		b.WriteString(group)
	}

	return st.cfg.Templates.Format(template.Div, map[string]string{
		"attrs":   template.FormatAttributes(attrs),
		"content": b.String(),
	})
}

// level renders a list of siblings. A node takes its index before its
// children are rendered, so indexes follow pre-order.
func (st *state) level(ctx context.Context, nodes []*menu.Node, depth int) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		st.index++
		info := Info{
			Index:  st.index,
			Total:  st.total,
			Depth:  depth,
			Active: st.resolver.IsActive(n, st.cfg.BreadcrumbGuessing),
			URL:    st.resolver.URL(n.URL),
		}

		if n.Expandable() {
			children, err := st.children(ctx, n, depth)
			if err != nil {
				return "", err
			}
			info.Children = children
			info.HasChildren = children != ""
		}

		out, err := st.cfg.Formatter(ctx, n, info)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (st *state) children(ctx context.Context, n *menu.Node, depth int) (string, error) {
	content, err := st.level(ctx, n.Children, depth+1)
	if err != nil || content == "" {
		return "", err
	}

	attrs := template.Attrs{"role": "menu"}
	if st.cfg.Dropdown {
		attrs.AddClass(dropdownMenuClass)
	}
	return st.cfg.Templates.Format(template.Parent, map[string]string{
		"attrs":   template.FormatAttributes(attrs),
		"content": content,
	})
}
