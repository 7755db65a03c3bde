package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/treemenu/pkg/errors"
)

const testTree = `- title: Home
  url: /
- title: Blog
  url: /blog
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testEnv writes a config using an uncached SQLite store in a temp dir.
func testEnv(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = writeFile(t, dir, "config.toml", `
[cache]
backend = "none"

[store]
driver = "sqlite"
dsn = "`+filepath.ToSlash(filepath.Join(dir, "menus.db"))+`"
`)
	return dir, configPath
}

func execute(t *testing.T, configPath string, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", configPath}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"render", "graph", "browse", "import", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestRenderFile(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)
	out := filepath.Join(dir, "menu.html")

	err := execute(t, cfg, "render", "--file", tree, "--current", "/", "--class", "nav", "-o", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `<ul class="nav"><li class="first-item active"><a href="/" class="active"><span>Home</span></a></li>` +
		`<li class="last-item"><a href="/blog"><span>Blog</span></a></li></ul>` + "\n"
	if got := readFile(t, out); got != want {
		t.Errorf("output:\n got %q\nwant %q", got, want)
	}
}

func TestRenderSplit(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)
	out := filepath.Join(dir, "menu.html")

	if err := execute(t, cfg, "render", "--file", tree, "--split", "2", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := readFile(t, out)
	if !strings.HasPrefix(got, "<div>") || !strings.Contains(got, `class="menu-part part-2"`) {
		t.Errorf("split output = %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"unknown slug", []string{"render", "--slug", "nope"}, errs.ErrCodeMenuNotFound},
		{"missing file", []string{"render", "--file", filepath.Join(dir, "missing.yaml")}, errs.ErrCodeFileNotFound},
		{"bad extension", []string{"render", "--file", filepath.Join(dir, "menu.txt")}, errs.ErrCodeUnsupported},
		{"bad id", []string{"render", "--id", "0"}, errs.ErrCodeInvalidInput},
		{"negative split", []string{"render", "--file", tree, "--split", "-1"}, errs.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, cfg, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if err := execute(t, cfg, "render"); err == nil {
		t.Error("render without a source should fail")
	}
	if err := execute(t, cfg, "render", "--file", tree, "--slug", "main"); err == nil {
		t.Error("render with two sources should fail")
	}
}

func TestImportAndRenderBySlug(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)
	out := filepath.Join(dir, "menu.html")

	if err := execute(t, cfg, "import", tree, "--slug", "main", "--title", "Main"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := execute(t, cfg, "render", "--slug", "main", "--current", "/blog", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := readFile(t, out)
	if !strings.Contains(got, `<li class="last-item active"><a href="/blog" class="active">`) {
		t.Errorf("output = %q", got)
	}

	// Importing again replaces the links.
	writeFile(t, dir, "menu.yaml", "- title: Only\n  url: /only\n")
	if err := execute(t, cfg, "import", tree, "--slug", "main"); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if err := execute(t, cfg, "render", "--slug", "main", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := readFile(t, out); strings.Contains(got, "Blog") || !strings.Contains(got, "Only") {
		t.Errorf("re-imported output = %q", got)
	}
}

func TestImportRequiresSlug(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)
	if err := execute(t, cfg, "import", tree); !errs.Is(err, errs.ErrCodeInvalidSlug) {
		t.Errorf("error = %v, want INVALID_SLUG", err)
	}
}

func TestGraphDOT(t *testing.T) {
	dir, cfg := testEnv(t)
	tree := writeFile(t, dir, "menu.yaml", testTree)
	out := filepath.Join(dir, "menu.dot")

	if err := execute(t, cfg, "graph", "--file", tree, "--dot", "--detailed", "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}
	got := readFile(t, out)
	if !strings.HasPrefix(got, "digraph G {") || !strings.Contains(got, `label="Blog\n/blog"`) {
		t.Errorf("DOT output = %q", got)
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	dir := t.TempDir()
	tree := writeFile(t, dir, "menu.yaml", testTree)
	err := execute(t, filepath.Join(dir, "nope.toml"), "render", "--file", tree)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/a", []string{"/a"}},
		{"/a, /b,,", []string{"/a", "/b"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":8080":          ":8080",
		"127.0.0.1:9000": ":9000",
		"localhost":      "",
	}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rendered menu", "items", 3)

	out := buf.String()
	for _, want := range []string{"Rendered menu", "items=3", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
