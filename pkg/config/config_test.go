package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/treemenu/pkg/cache"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/store/sqlstore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if !cfg.Render.BreadcrumbGuessing {
		t.Error("Render.BreadcrumbGuessing should default to true")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[render]
dropdown = true
split = 3
active_class = ""
beautify = "2s0n"

[render.templates]
root = '<ol{{attrs}}>{{content}}</ol>'

[link]
base = "/site"

[cache]
backend = "memory"
ttl = "90s"
prefix = "blog:"

[store]
driver = "none"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Render.Dropdown || cfg.Render.Split != 3 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.ActiveClass != "" {
		t.Errorf("ActiveClass = %q, want empty", cfg.Render.ActiveClass)
	}
	if cfg.Render.FirstClass == "" {
		t.Error("FirstClass should keep its default")
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	rc, err := cfg.RenderConfig()
	if err != nil {
		t.Fatalf("RenderConfig() error: %v", err)
	}
	if rc.Templates["root"] != "<ol{{attrs}}>{{content}}</ol>" {
		t.Errorf("root template = %q", rc.Templates["root"])
	}
	if rc.Templates["link"] == "" {
		t.Error("link template should be filled from defaults")
	}

	r := cfg.Resolver("/site/about", nil)
	if got := r.URL("/about"); got != "/site/about" {
		t.Errorf("URL(/about) = %q, want /site/about", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[render\n"},
		{"unknown key", "[render]\ncolour = \"red\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad driver", "[store]\ndriver = \"postgres\"\n"},
		{"missing dsn", "[store]\ndriver = \"sqlite\"\ndsn = \"\"\n"},
		{"negative split", "[render]\nsplit = -1\n"},
		{"negative ttl", "[cache]\nttl = \"-1m\"\n"},
		{"bad template", "[render.templates]\nroot = \"<ul>{{content</ul>\"\n"},
		{"bad beautify", "[render]\nbeautify = \"xyz\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	if _, err := Load(path); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("LoadOrDefault() did not return defaults: %+v", cfg.Server)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if path != filepath.Join("/tmp/xdg", appName, "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	path, err = DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if !strings.Contains(path, ".config") || !strings.HasSuffix(path, "config.toml") {
		t.Errorf("DefaultPath() = %q, want ~/.config/treemenu/config.toml", path)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()

	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	dir, err := cfg.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/cache", appName) {
		t.Errorf("CacheDir() = %q", dir)
	}

	cfg.Cache.Dir = "/srv/menus"
	if dir, _ := cfg.CacheDir(); dir != "/srv/menus" {
		t.Errorf("CacheDir() = %q, want /srv/menus", dir)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		check   func(cache.Cache) bool
	}{
		{CacheNone, func(c cache.Cache) bool { _, ok := c.(*cache.NullCache); return ok }},
		{CacheMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{CacheFile, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := Default()
			cfg.Cache.Backend = tt.backend
			cfg.Cache.Dir = t.TempDir()
			c, err := cfg.OpenCache(ctx)
			if err != nil {
				t.Fatalf("OpenCache() error: %v", err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("OpenCache() = %T", c)
			}
		})
	}
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	plain := cfg.Keyer().TreeKey("main")

	cfg.Cache.Prefix = "blog:"
	scoped := cfg.Keyer().TreeKey("main")
	if scoped == plain || !strings.HasPrefix(scoped, "blog:") {
		t.Errorf("scoped key = %q, plain key = %q", scoped, plain)
	}
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Store.Driver = StoreNone
	src, closeFn, err := cfg.OpenSource(ctx)
	if err != nil || src != nil {
		t.Fatalf("OpenSource(none) = %v, %v", src, err)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	cfg.Store.Driver = StoreSQLite
	cfg.Store.DSN = filepath.Join(t.TempDir(), "menus.db")
	src, closeFn, err = cfg.OpenSource(ctx)
	if err != nil {
		t.Fatalf("OpenSource(sqlite) error: %v", err)
	}
	defer closeFn()
	if _, ok := src.(*sqlstore.Store); !ok {
		t.Errorf("OpenSource(sqlite) = %T", src)
	}
}
