// Package prom implements the observability hooks on top of Prometheus.
package prom

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/treemenu/pkg/observability"
)

const namespace = "treemenu"

// Hooks records renderer, cache, and data source events as Prometheus metrics.
// It implements observability.RenderHooks, observability.CacheHooks, and
// observability.StoreHooks.
type Hooks struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderItems    prometheus.Histogram
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	queries        *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
}

var (
	_ observability.RenderHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.StoreHooks  = (*Hooks)(nil)
)

// New creates the metric collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Top-level menu renders by outcome.",
		}, []string{"status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of top-level menu renders.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"status"}),
		renderItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_items",
			Help:      "Number of visible items per rendered menu.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_queries_total",
			Help:      "Data source queries by driver, kind, and outcome.",
		}, []string{"driver", "kind", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Duration of data source queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"driver", "kind"}),
	}

	reg.MustRegister(
		h.renders,
		h.renderDuration,
		h.renderItems,
		h.cacheEvents,
		h.cacheBytes,
		h.queries,
		h.queryDuration,
	)
	return h
}

// Register creates hooks on reg and installs them globally.
func Register(reg prometheus.Registerer) *Hooks {
	h := New(reg)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetStoreHooks(h)
	return h
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (h *Hooks) OnRenderStart(context.Context, string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, _ string, items int, d time.Duration, err error) {
	s := status(err)
	h.renders.WithLabelValues(s).Inc()
	h.renderDuration.WithLabelValues(s).Observe(d.Seconds())
	if err == nil {
		h.renderItems.Observe(float64(items))
	}
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnQuery(_ context.Context, driver, kind string, d time.Duration, err error) {
	h.queries.WithLabelValues(driver, kind, status(err)).Inc()
	h.queryDuration.WithLabelValues(driver, kind).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
