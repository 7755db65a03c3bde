// Package render turns menu trees into nested HTML markup.
//
// # Overview
//
// A [Renderer] walks a [menu.Tree] depth first and hands every visible node
// to a [Formatter] together with an [Info] describing the node's position:
// its tree-wide index, the total number of visible items, its depth, whether
// it points at the current page and the markup already produced for its
// children. The formatter output of all siblings is concatenated and wrapped
// with the templates of a [template.Set]:
//
//	<ul>                      root
//	  <li>                    child (per node)
//	    <a href=".."></a>     link
//	    <ul>..</ul>           parent (wraps rendered children)
//	  </li>
//	</ul>
//
// # Inputs
//
// Render accepts a menu ID ([ID]), a menu slug ([Slug]), an already
// materialized tree ([Items]) or an iterator of top-level nodes ([Seq]).
// IDs and slugs are loaded through a [TreeLoader], normally a store.Loader
// that caches trees between calls. A slug that does not resolve renders as
// an empty string.
//
// # Options
//
// [Options] carries configuration overrides ([Partial]) and the attributes
// of the outermost wrapper element. [ParseOptions] builds Options from a
// loosely typed map the way template code usually passes them:
//
//	opts, err := render.ParseOptions(map[string]any{
//	    "dropdown": true,
//	    "split":    3,
//	    "class":    "nav navbar-nav",
//	})
//
// # Split Menus
//
// With Split set to N >= 2 the top-level items are cut into N contiguous
// chunks, each wrapped in the parent template with a "menu-part part-{i}"
// class, and the chunks are wrapped together in the div template. Indexes
// keep counting across chunks, so only the very first item gets the first
// class and only the very last item gets the last class.
//
// # Hooks
//
// [RenderHook] functions run before a render starts and may replace its
// input or options. [FormatHook] functions run before the default formatter
// decorates a node and may adjust a copy of the node, its info or its
// [ItemOptions].
//
// # Loop Detection
//
// Formatters and hooks receive the context of the render in progress. A call
// to Render with that context fails with an error coded RENDER_LOOP instead
// of recursing. Every call builds its own counters and configuration, so
// one Renderer can serve concurrent calls.
package render
