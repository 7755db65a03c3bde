package cli

import (
	"context"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/internal/server"
	"github.com/matzehuels/treemenu/pkg/observability/prom"
)

// serveCommand creates the serve command for the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		warm    []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered menus over HTTP",
		Long: `Serve rendered menus over HTTP.

Routes:
  GET    /menus/{ref}            rendered HTML (query: path, breadcrumb, split,
                                 dropdown, beautify, class, id)
  GET    /menus/{ref}/tree       tree as JSON
  GET    /menus/{ref}/graph.dot  tree as Graphviz DOT
  DELETE /menus/{ref}/cache      drop the cached tree
  GET    /healthz                health check
  GET    /metrics                Prometheus metrics

A numeric ref is a menu ID, anything else a slug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, warm)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringSliceVar(&warm, "warm", nil, "menu IDs or slugs to load into the cache at startup")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, warm []string) error {
	b, err := c.newBackend(ctx, true, noCache)
	if err != nil {
		return err
	}
	defer b.close()

	if addr == "" {
		addr = b.cfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom.Register(reg)

	if len(warm) > 0 {
		prog := newProgress(c.Logger)
		if err := b.loader.Warm(ctx, warm...); err != nil {
			c.Logger.Warn("cache warm-up failed", "error", err)
		} else {
			prog.done("Warmed cache", "menus", len(warm))
		}
	}

	srv := server.New(b.renderer, server.Options{
		Addr:     addr,
		LinkBase: b.cfg.Link.Base,
		Cache:    b.loader,
		Gatherer: reg,
		Logger:   c.Logger,
	})

	printInfo("Serving menus on %s", StyleLink.Render(addr))
	printNextStep("Try", "curl http://localhost"+portOf(addr)+"/menus/<slug>")
	return srv.Serve(ctx)
}

// portOf returns the ":port" suffix of a listen address.
func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return ":" + port
}
