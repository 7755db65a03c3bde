// Package cli implements the treemenu command-line interface.
//
// This package provides commands for rendering menu trees to HTML, drawing
// them as diagrams, browsing them interactively, importing them into a menu
// store and serving them over HTTP. The CLI is built using cobra and logs
// via the charmbracelet/log library.
//
// # Commands
//
//   - render: Render a menu from a tree file, menu ID or slug to HTML
//   - graph: Draw a menu tree as an SVG or DOT diagram
//   - browse: Expand and collapse a menu tree interactively, then render it
//   - import: Store a tree file in the configured menu store
//   - serve: Run the HTTP preview server
//   - cache: Manage the menu tree cache
//
// # Configuration
//
// All commands read the TOML configuration file given by --config, or
// $XDG_CONFIG_HOME/treemenu/config.toml when it exists.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/pkg/buildinfo"
	"github.com/matzehuels/treemenu/pkg/cache"
	"github.com/matzehuels/treemenu/pkg/config"
	"github.com/matzehuels/treemenu/pkg/render"
	"github.com/matzehuels/treemenu/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treemenu"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means the default location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Treemenu renders hierarchical navigation menus",
		Long:         `Treemenu renders hierarchical navigation menus as nested HTML lists, with active-trail detection, dropdown markup and column splitting.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/treemenu/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if c.ConfigPath != "" {
		cfg, err = config.Load(c.ConfigPath)
	} else {
		path, pathErr := config.DefaultPath()
		if pathErr != nil {
			cfg = config.Default()
		} else {
			cfg, err = config.LoadOrDefault(path)
		}
	}
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Renderer Factory
// =============================================================================

// backend bundles the collaborators a render needs. close releases them.
type backend struct {
	cfg      *config.Config
	loader   *store.Loader
	renderer *render.Renderer
	close    func()
}

// newBackend wires the configured store and cache into a renderer. When
// withSource is false no store connection is opened and only materialized
// trees can be rendered.
func (c *CLI) newBackend(ctx context.Context, withSource, noCache bool) (*backend, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	rc, err := cfg.RenderConfig()
	if err != nil {
		return nil, err
	}

	var closers []func() error
	b := &backend{cfg: cfg}
	b.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				c.Logger.Warn("close", "error", err)
			}
		}
	}

	var treeCache cache.Cache = cache.NewNullCache()
	if !noCache {
		if treeCache, err = cfg.OpenCache(ctx); err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
			treeCache = cache.NewNullCache()
		}
	}
	closers = append(closers, treeCache.Close)

	var src store.Source
	if withSource {
		s, closeSrc, err := cfg.OpenSource(ctx)
		if err != nil {
			b.close()
			return nil, err
		}
		src = s
		closers = append(closers, closeSrc)
	}

	b.loader = store.NewLoader(src, treeCache, cfg.Keyer(), c.Logger)
	b.loader.TTL = cfg.Cache.TTL
	b.renderer = render.New(b.loader, cfg.Resolver("", nil), c.Logger)
	b.renderer.Defaults = rc
	return b, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
