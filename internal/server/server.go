// Package server implements the treemenu HTTP preview server.
//
// Routes:
//
//	GET    /healthz               200 "ok"
//	GET    /metrics               Prometheus metrics (when a gatherer is set)
//	GET    /menus/{ref}           rendered menu HTML
//	GET    /menus/{ref}/tree      menu tree as JSON
//	GET    /menus/{ref}/graph.dot menu tree as Graphviz DOT
//	DELETE /menus/{ref}/cache     drop the cached tree
//
// A numeric ref is a menu ID, anything else a slug. The HTML route accepts
// the query parameters path, breadcrumb (comma separated), split, dropdown,
// beautify, class and id.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemenu/pkg/link"
	"github.com/matzehuels/treemenu/pkg/observability/prom"
	"github.com/matzehuels/treemenu/pkg/render"
)

const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
)

// Invalidator drops cached menu trees. store.Loader implements it.
type Invalidator interface {
	Invalidate(ctx context.Context, ref string) error
}

// Options configures a [Server].
type Options struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// LinkBase is prepended to site-relative link URLs.
	LinkBase string

	// Cache, when set, enables DELETE /menus/{ref}/cache.
	Cache Invalidator

	// Gatherer, when set, is exposed at /metrics.
	Gatherer prometheus.Gatherer

	// ShutdownTimeout bounds graceful shutdown. Defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	Logger *log.Logger
}

// Server serves rendered menus over HTTP.
type Server struct {
	renderer *render.Renderer
	opts     Options
	logger   *log.Logger
	router   chi.Router

	mu       sync.RWMutex
	listener net.Listener
}

// New creates a server rendering menus with r.
func New(r *render.Renderer, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		renderer: r,
		opts:     opts,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", prom.Handler(s.opts.Gatherer))
	}

	r.Route("/menus/{ref}", func(r chi.Router) {
		r.Get("/", s.handleRender)
		r.Get("/tree", s.handleTree)
		r.Get("/graph.dot", s.handleGraph)
		r.Delete("/cache", s.handleInvalidate)
	})
	return r
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address while the server is running, or the
// configured address otherwise.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Serve listens on the configured address and blocks until ctx is canceled.
// It returns nil after a graceful shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:        s.router,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		IdleTimeout:    DefaultIdleTimeout,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
		BaseContext:    func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.listener = nil
		s.mu.Unlock()
	}()

	s.logger.Info("starting server", "addr", ln.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down server", "grace_period", s.opts.ShutdownTimeout)
		start := time.Now()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped", "duration", time.Since(start).Round(time.Millisecond))
		return nil
	})
	return g.Wait()
}

func (s *Server) resolver(current string, breadcrumb []string) link.Resolver {
	return link.PathResolver{
		Base:       s.opts.LinkBase,
		Current:    current,
		Breadcrumb: breadcrumb,
	}
}
