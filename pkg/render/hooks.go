package render

import (
	"context"

	"github.com/matzehuels/treemenu/pkg/menu"
)

// RenderHook runs before a render loads its input. It may replace the input
// or change the options. Returning an error aborts the render.
type RenderHook func(ctx context.Context, in *Input, opts *Options) error

// FormatHook runs before the default formatter decorates a node. The node
// is a shallow copy owned by the current call: scalar fields may be changed
// freely, Children must not be modified.
type FormatHook func(ctx context.Context, n *menu.Node, info *Info, item *ItemOptions) error

// OnRender registers hooks that run, in registration order, at the start of
// every render. Register hooks before the renderer is shared.
func (r *Renderer) OnRender(hooks ...RenderHook) {
	r.renderHooks = append(r.renderHooks, hooks...)
}

// OnFormat registers hooks that run, in registration order, before every
// default-formatted item. Register hooks before the renderer is shared.
func (r *Renderer) OnFormat(hooks ...FormatHook) {
	r.formatHooks = append(r.formatHooks, hooks...)
}
