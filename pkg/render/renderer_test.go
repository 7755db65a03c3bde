package render

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/treemenu/pkg/beautify"
	"github.com/matzehuels/treemenu/pkg/cache"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/link"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/store"
	"github.com/matzehuels/treemenu/pkg/template"
)

// abc is A (expanded, children B and C).
func abc() menu.Tree {
	return menu.Tree{
		{ID: 1, Title: "A", URL: "/a", Expanded: true, Children: []*menu.Node{
			{ID: 2, ParentID: 1, Title: "B", URL: "/b"},
			{ID: 3, ParentID: 1, Title: "C", URL: "/c"},
		}},
	}
}

func flat(n int) menu.Tree {
	t := make(menu.Tree, n)
	for i := range t {
		t[i] = &menu.Node{ID: int64(i + 1), Title: string(rune('A' + i)), URL: "/" + string(rune('a'+i))}
	}
	return t
}

func TestRenderEmpty(t *testing.T) {
	r := New(nil, nil, nil)
	for _, in := range []Input{Items(nil), Items(menu.Tree{}), Seq(nil), nil} {
		out, err := r.Render(context.Background(), in, Options{})
		if err != nil {
			t.Fatalf("Render(%v): %v", in, err)
		}
		if out != "" {
			t.Errorf("Render(%v) = %q, want empty", in, out)
		}
	}
}

func TestRenderOnlyNilNodes(t *testing.T) {
	r := New(nil, nil, nil)
	for _, opts := range []Options{{}, {Config: Partial{Split: Ptr(2)}}} {
		out, err := r.Render(context.Background(), Items(menu.Tree{nil, nil}), opts)
		if err != nil {
			t.Fatal(err)
		}
		if out != "" {
			t.Errorf("Render(nil nodes) = %q, want empty", out)
		}
	}
}

func TestRenderNested(t *testing.T) {
	r := New(nil, nil, nil)
	out, err := r.Render(context.Background(), Items(abc()), Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := `<ul>` +
		`<li class="first-item has-children"><a href="/a"><span>A</span></a>` +
		`<ul role="menu">` +
		`<li><a href="/b"><span>B</span></a></li>` +
		`<li class="last-item"><a href="/c"><span>C</span></a></li>` +
		`</ul></li></ul>`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}
}

func TestRenderCollapsedChildrenAreSkipped(t *testing.T) {
	tree := menu.Tree{
		{ID: 1, Title: "A", URL: "/a", Children: []*menu.Node{
			{ID: 2, Title: "hidden", URL: "/hidden"},
		}},
		{ID: 3, Title: "D", URL: "/d"},
	}

	var infos []Info
	f := func(ctx context.Context, n *menu.Node, info Info) (string, error) {
		infos = append(infos, info)
		return DefaultFormatter(ctx, n, info)
	}

	out, err := New(nil, nil, nil).Render(context.Background(), Items(tree), WithFormatter(f))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "hidden") || strings.Contains(out, `role="menu"`) {
		t.Errorf("collapsed children rendered: %s", out)
	}
	if len(infos) != 2 {
		t.Fatalf("formatter called %d times, want 2", len(infos))
	}
	for _, info := range infos {
		if info.Total != 2 {
			t.Errorf("Total = %d, want 2", info.Total)
		}
		if info.HasChildren {
			t.Errorf("item %d should not have children", info.Index)
		}
	}
	if !strings.Contains(out, `<li class="last-item"><a href="/d">`) {
		t.Errorf("D should be last: %s", out)
	}
}

func TestRenderInfo(t *testing.T) {
	tree := abc()
	tree = append(tree, &menu.Node{ID: 4, Title: "D", URL: "/d"})

	type seen struct {
		title string
		info  Info
	}
	var got []seen
	f := func(_ context.Context, n *menu.Node, info Info) (string, error) {
		got = append(got, seen{n.Title, info})
		return n.Title, nil
	}

	out, err := New(nil, nil, nil).Render(context.Background(), Items(tree), WithFormatter(f))
	if err != nil {
		t.Fatal(err)
	}
	// The formatter ignores info.Children, so nested items do not show up.
	if out != "<ul>AD</ul>" {
		t.Errorf("output = %s, want <ul>AD</ul>", out)
	}

	want := map[string]Info{
		"A": {Index: 1, Total: 4, Depth: 0, HasChildren: true, URL: "/a"},
		"B": {Index: 2, Total: 4, Depth: 1, URL: "/b"},
		"C": {Index: 3, Total: 4, Depth: 1, URL: "/c"},
		"D": {Index: 4, Total: 4, Depth: 0, URL: "/d"},
	}
	if len(got) != 4 {
		t.Fatalf("formatter called %d times, want 4", len(got))
	}
	for _, s := range got {
		w := want[s.title]
		info := s.info
		info.Children = ""
		if info != w {
			t.Errorf("%s: info = %+v, want %+v", s.title, info, w)
		}
	}
	// Children are formatted before their parent.
	if got[0].title != "B" || got[2].title != "A" {
		t.Errorf("formatter order = %v", got)
	}
	if a := got[2].info; a.Children != `<ul role="menu">BC</ul>` {
		t.Errorf("A.Children = %q", a.Children)
	}
}

func TestRenderLoopDetection(t *testing.T) {
	r := New(nil, nil, nil)
	tree := abc()

	f := func(ctx context.Context, n *menu.Node, info Info) (string, error) {
		inner, err := r.Render(ctx, Items(tree), Options{})
		if err != nil {
			return "", err
		}
		return inner, nil
	}

	out, err := r.Render(context.Background(), Items(tree), WithFormatter(f))
	if !errs.Is(err, errs.ErrCodeRenderLoop) {
		t.Fatalf("error = %v, want RENDER_LOOP", err)
	}
	if out != "" {
		t.Errorf("partial output returned: %q", out)
	}

	// The renderer is usable again afterwards.
	if _, err := r.Render(context.Background(), Items(tree), Options{}); err != nil {
		t.Errorf("render after loop error: %v", err)
	}
}

func TestRenderFreshContextIsIndependent(t *testing.T) {
	r := New(nil, nil, nil)
	footer := flat(1)

	var nested []error
	f := func(ctx context.Context, n *menu.Node, info Info) (string, error) {
		if !Rendering(ctx) {
			t.Error("formatter context does not carry the render")
		}
		inner, err := r.Render(context.Background(), Items(footer), Options{})
		nested = append(nested, err)
		return n.Title + inner, err
	}

	out, err := r.Render(context.Background(), Items(flat(2)), WithFormatter(f))
	if err != nil {
		t.Fatal(err)
	}
	if want := "<ul>A<ul>" + footer[0].Title + "</ul>B<ul>" + footer[0].Title + "</ul></ul>"; out != want {
		t.Errorf("got %s, want %s", out, want)
	}
	for i, err := range nested {
		if err != nil {
			t.Errorf("nested render %d: %v", i, err)
		}
	}
}

func TestRenderLoopDetectionFromHook(t *testing.T) {
	r := New(nil, nil, nil)
	r.OnRender(func(ctx context.Context, in *Input, opts *Options) error {
		_, err := r.Render(ctx, *in, *opts)
		return err
	})

	_, err := r.Render(context.Background(), Items(abc()), Options{})
	if !errs.Is(err, errs.ErrCodeRenderLoop) {
		t.Errorf("error = %v, want RENDER_LOOP", err)
	}
}

func TestRenderSplit(t *testing.T) {
	r := New(nil, nil, nil)
	opts := Options{
		Config: Partial{Split: Ptr(3)},
		Attrs:  template.Attrs{"class": "menu"},
	}

	out, err := r.Render(context.Background(), Items(flat(9)), opts)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, `<div class="menu">`) || !strings.HasSuffix(out, `</div>`) {
		t.Errorf("split output not wrapped in div: %s", out)
	}
	if n := strings.Count(out, "<div"); n != 1 {
		t.Errorf("got %d div wrappers, want 1", n)
	}
	if n := strings.Count(out, `class="menu-part`); n != 3 {
		t.Errorf("got %d parts, want 3", n)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(out, `<div class="menu">`), `</div>`)
	parts := strings.SplitAfter(body, "</ul>")
	parts = parts[:len(parts)-1]
	if len(parts) != 3 {
		t.Fatalf("got %d groups: %v", len(parts), parts)
	}
	for i, p := range parts {
		prefix := `<ul class="menu-part part-` + string(rune('1'+i)) + `">`
		if !strings.HasPrefix(p, prefix) {
			t.Errorf("group %d = %s, want prefix %s", i+1, p, prefix)
		}
		if n := strings.Count(p, "<li"); n != 3 {
			t.Errorf("group %d has %d items, want 3", i+1, n)
		}
	}

	if n := strings.Count(out, "first-item"); n != 1 {
		t.Errorf("first-item appears %d times, want 1", n)
	}
	if n := strings.Count(out, "last-item"); n != 1 {
		t.Errorf("last-item appears %d times, want 1", n)
	}
	if !strings.Contains(parts[2], `<li class="last-item"><a href="/i">`) {
		t.Errorf("last item should be in the last group: %s", parts[2])
	}
}

func TestRenderSplitUneven(t *testing.T) {
	tests := []struct {
		items, split, groups int
	}{
		{10, 3, 3}, // 4 + 4 + 2
		{7, 2, 2},  // 4 + 3
		{2, 3, 2},  // 1 + 1
		{5, 1, 0},  // split disabled
	}

	for _, tt := range tests {
		out, err := New(nil, nil, nil).Render(context.Background(), Items(flat(tt.items)),
			Options{Config: Partial{Split: Ptr(tt.split)}})
		if err != nil {
			t.Fatal(err)
		}
		if n := strings.Count(out, "menu-part"); n != tt.groups {
			t.Errorf("items=%d split=%d: got %d groups, want %d", tt.items, tt.split, n, tt.groups)
		}
		if n := strings.Count(out, "<li"); n != tt.items {
			t.Errorf("items=%d split=%d: got %d items", tt.items, tt.split, n)
		}
	}
}

func TestRenderSplitSkipsNilNodes(t *testing.T) {
	tree := menu.Tree{nil, nil}
	tree = append(tree, flat(4)...)
	tree = append(tree, nil)

	out, err := New(nil, nil, nil).Render(context.Background(), Items(tree),
		Options{Config: Partial{Split: Ptr(2)}})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "menu-part"); n != 2 {
		t.Errorf("got %d groups, want 2: %s", n, out)
	}
	if strings.Contains(out, `"></ul>`) {
		t.Errorf("empty group rendered: %s", out)
	}
	if n := strings.Count(out, "<li"); n != 4 {
		t.Errorf("got %d items, want 4", n)
	}
}

func TestRenderActive(t *testing.T) {
	tree := abc()
	resolver := link.PathResolver{Current: "/b", Breadcrumb: []string{"/a"}}

	tests := []struct {
		name     string
		guessing bool
		active   []string
	}{
		{"guessing", true, []string{"A", "B"}},
		{"exact only", false, []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var active []string
			f := func(ctx context.Context, n *menu.Node, info Info) (string, error) {
				if info.Active {
					active = append(active, n.Title)
				}
				return DefaultFormatter(ctx, n, info)
			}
			opts := Options{
				Config:   Partial{Formatter: f, BreadcrumbGuessing: Ptr(tt.guessing)},
				Resolver: resolver,
			}
			out, err := New(nil, nil, nil).Render(context.Background(), Items(tree), opts)
			if err != nil {
				t.Fatal(err)
			}
			// Children are formatted first, so sort by title.
			slices.Sort(active)
			if strings.Join(active, ",") != strings.Join(tt.active, ",") {
				t.Errorf("active = %v, want %v", active, tt.active)
			}
			if !strings.Contains(out, `<li class="active"><a href="/b" class="active">`) {
				t.Errorf("B not decorated as active: %s", out)
			}
		})
	}
}

func TestRenderDropdown(t *testing.T) {
	opts := Options{Config: Partial{Dropdown: Ptr(true)}}
	out, err := New(nil, nil, nil).Render(context.Background(), Items(abc()), opts)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`<li class="first-item has-children dropdown"><a href="/a" data-toggle="dropdown">`,
		`<ul class="dropdown-menu multi-level" role="menu">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n%s", want, out)
		}
	}
}

func TestRenderLinkAttributes(t *testing.T) {
	tree := menu.Tree{{Title: "Docs & more", URL: "/docs?q=a&b=c", Description: `say "hi"`, Target: "_blank"}}

	out, err := New(nil, nil, nil).Render(context.Background(), Items(tree), Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := `<ul><li class="first-item last-item">` +
		`<a href="/docs?q=a&amp;b=c" target="_blank" title="say &#34;hi&#34;"><span>Docs &amp; more</span></a>` +
		`</li></ul>`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}
}

func TestRenderCustomClassesAndTemplates(t *testing.T) {
	opts := Options{
		Config: Partial{
			FirstClass: Ptr("first"),
			LastClass:  Ptr(""),
			Templates: template.Set{
				template.Root:  `<nav><ol{{attrs}}>{{content}}</ol></nav>`,
				template.Child: `<li{{attrs}}>{{content}}</li>`,
			},
		},
		Attrs: template.Attrs{"id": "main", "class": "nav"},
	}

	r := New(nil, nil, nil)
	out, err := r.Render(context.Background(), Items(flat(2)), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := `<nav><ol class="nav" id="main">` +
		`<li class="first"><a href="/a"><span>A</span></a></li>` +
		`<li><a href="/b"><span>B</span></a></li>` +
		`</ol></nav>`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}

	// Per-call templates do not leak into later calls.
	out, _ = r.Render(context.Background(), Items(flat(1)), Options{})
	if !strings.HasPrefix(out, "<ul><li class=\"first-item last-item\">") {
		t.Errorf("templates leaked: %s", out)
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	opts := Options{Config: Partial{Templates: template.Set{template.Root: "<ul>{{content</ul>"}}}
	_, err := New(nil, nil, nil).Render(context.Background(), Items(flat(1)), opts)
	if !errs.Is(err, errs.ErrCodeInvalidTemplate) {
		t.Errorf("error = %v, want INVALID_TEMPLATE", err)
	}
}

func TestRenderNegativeSplit(t *testing.T) {
	_, err := New(nil, nil, nil).Render(context.Background(), Items(flat(1)), Options{Config: Partial{Split: Ptr(-1)}})
	if !errs.Is(err, errs.ErrCodeInvalidOption) {
		t.Errorf("error = %v, want INVALID_OPTION", err)
	}
}

func TestRenderIdempotent(t *testing.T) {
	r := New(nil, link.PathResolver{Current: "/c"}, nil)
	opts := Options{Config: Partial{Dropdown: Ptr(true), Split: Ptr(2)}}
	tree := append(abc(), flat(3)...)

	first, err := r.Render(context.Background(), Items(tree), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(context.Background(), Items(tree), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n%s", first, second)
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := New(nil, nil, nil)
	want, err := r.Render(context.Background(), Items(abc()), Options{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Render(context.Background(), Items(abc()), Options{})
			if err != nil || got != want {
				t.Errorf("concurrent render = %q, %v", got, err)
			}
		}()
	}
	wg.Wait()
}

func TestRenderBeautify(t *testing.T) {
	r := New(nil, nil, nil)
	plain, err := r.Render(context.Background(), Items(abc()), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := beautify.Default.Beautify(plain, beautify.DefaultDirective)
	if err != nil {
		t.Fatal(err)
	}

	for _, directive := range []string{"1", "true", "1t0n"} {
		got, err := r.Render(context.Background(), Items(abc()), Options{Config: Partial{Beautify: Ptr(directive)}})
		if err != nil {
			t.Fatalf("beautify %q: %v", directive, err)
		}
		if got != want {
			t.Errorf("beautify %q:\n%s\nwant\n%s", directive, got, want)
		}
	}
}

func TestRenderCustomBeautifier(t *testing.T) {
	r := New(nil, nil, nil)
	var calls int
	r.Beautifier = beautify.Func(func(html, directive string) (string, error) {
		calls++
		return strings.ToUpper(html), nil
	})

	out, err := r.Render(context.Background(), Items(flat(1)), Options{Config: Partial{Beautify: Ptr("2s0n")}})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || !strings.HasPrefix(out, "<UL>") {
		t.Errorf("beautifier calls = %d, out = %s", calls, out)
	}
}

func TestRenderByIDAndSlug(t *testing.T) {
	src := store.NewMemorySource()
	src.Add(5, "main", abc())
	c := cache.NewMemoryCache()
	r := New(store.NewLoader(src, c, nil, nil), nil, nil)
	ctx := context.Background()

	want, _ := r.Render(ctx, Items(abc()), Options{})

	for _, in := range []Input{ID(5), Slug("main"), ParseRef("5"), ParseRef("main")} {
		got, err := r.Render(ctx, in, Options{})
		if err != nil {
			t.Fatalf("Render(%s): %v", in.Ref(), err)
		}
		if got != want {
			t.Errorf("Render(%s) = %s, want %s", in.Ref(), got, want)
		}
	}
	for _, key := range []string{"render(5)", "render(main)"} {
		if _, hit, _ := c.Get(ctx, key); !hit {
			t.Errorf("expected cache entry %s", key)
		}
	}

	out, err := r.Render(ctx, Slug("unknown"), Options{})
	if err != nil || out != "" {
		t.Errorf("unknown slug = %q, %v; want empty", out, err)
	}
}

func TestRenderWithoutLoader(t *testing.T) {
	_, err := New(nil, nil, nil).Render(context.Background(), ID(1), Options{})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderSeq(t *testing.T) {
	r := New(nil, nil, nil)
	want, _ := r.Render(context.Background(), Items(abc()), Options{})
	got, err := r.Render(context.Background(), Seq(abc().All()), Options{})
	if err != nil {
		t.Fatal(err)
	}
	// All yields every node as a top-level node; only compare the first item.
	if !strings.HasPrefix(got, want[:strings.Index(want, "</a>")]) {
		t.Errorf("seq render = %s", got)
	}

	seq := func(yield func(*menu.Node) bool) {
		for _, n := range abc() {
			if !yield(n) {
				return
			}
		}
	}
	got, err = r.Render(context.Background(), Seq(seq), Options{})
	if err != nil || got != want {
		t.Errorf("seq render = %s, %v; want %s", got, err, want)
	}
}

func TestRenderHooks(t *testing.T) {
	r := New(nil, nil, nil)
	tree := flat(1)

	r.OnRender(func(_ context.Context, in *Input, opts *Options) error {
		if _, ok := (*in).(Slug); ok {
			*in = Items(tree)
		}
		opts.Attrs = template.Attrs{"id": "hooked"}
		return nil
	})
	r.OnFormat(func(_ context.Context, n *menu.Node, info *Info, item *ItemOptions) error {
		n.Title = strings.ToLower(n.Title)
		item.LinkAttrs = template.Attrs{"rel": "nofollow"}
		item.ChildAttrs = template.Attrs{"class": "item"}
		return nil
	})

	out, err := r.Render(context.Background(), Slug("anything"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := `<ul id="hooked"><li class="item first-item last-item"><a href="/a" rel="nofollow"><span>a</span></a></li></ul>`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}
	if tree[0].Title != "A" {
		t.Error("format hook modified the input tree")
	}
}

func TestFormatHookItemTemplates(t *testing.T) {
	r := New(nil, nil, nil)
	r.OnFormat(func(_ context.Context, n *menu.Node, _ *Info, item *ItemOptions) error {
		if n.ID == 2 {
			item.Templates = template.Set{template.Link: `<b>{{content}}</b>`}
		}
		return nil
	})

	out, err := r.Render(context.Background(), Items(flat(3)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<li><b>B</b></li>") {
		t.Errorf("item template not applied: %s", out)
	}
	if strings.Count(out, "<span>") != 2 {
		t.Errorf("item template leaked to siblings: %s", out)
	}
}

func TestRenderFormatterError(t *testing.T) {
	boom := errs.New(errs.ErrCodeInternal, "boom")
	f := func(context.Context, *menu.Node, Info) (string, error) { return "", boom }

	out, err := New(nil, nil, nil).Render(context.Background(), Items(abc()), WithFormatter(f))
	if err != boom || out != "" {
		t.Errorf("Render = %q, %v; want formatter error", out, err)
	}
}

func TestRenderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil, nil, nil).Render(ctx, Items(abc()), Options{}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestDefaultFormatterOutsideRender(t *testing.T) {
	out, err := DefaultFormatter(context.Background(), &menu.Node{Title: "X", URL: "/x"}, Info{Index: 2, Total: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out != `<li><a href="/x"><span>X</span></a></li>` {
		t.Errorf("got %s", out)
	}
}

func TestCountItems(t *testing.T) {
	tree := abc()
	if n := CountItems(tree); n != 3 {
		t.Errorf("CountItems = %d, want 3", n)
	}
	tree[0].Expanded = false
	if n := CountItems(tree); n != 1 {
		t.Errorf("CountItems collapsed = %d, want 1", n)
	}
}

func TestInputOf(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{3, "3"},
		{int64(4), "4"},
		{"main", "main"},
		{menu.Tree{}, "tree"},
		{[]*menu.Node{}, "tree"},
		{[]map[string]any{{"title": "x"}}, "tree"},
		{Slug("s"), "s"},
	}
	for _, tt := range tests {
		in, err := InputOf(tt.in)
		if err != nil {
			t.Fatalf("InputOf(%v): %v", tt.in, err)
		}
		if in.Ref() != tt.want {
			t.Errorf("InputOf(%v).Ref() = %q, want %q", tt.in, in.Ref(), tt.want)
		}
	}
	if _, err := InputOf(3.5); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("InputOf(3.5) error = %v", err)
	}
}
