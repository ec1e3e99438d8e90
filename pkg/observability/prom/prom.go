// Package prom implements observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/heritage/pkg/observability"
)

const namespace = "heritage"

// Hooks records pipeline, cache and HTTP events. One value implements all
// three hook interfaces.
type Hooks struct {
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
	treeNodes     prometheus.Histogram
	warnings      prometheus.Counter
	pages         *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of export pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_total",
			Help:      "Completed export pipeline stages by outcome.",
		}, []string{"stage", "outcome"}),
		treeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Nodes in built trees.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		warnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_warnings_total",
			Help:      "Missing links, cycles and duplicates found while building trees.",
		}),
		pages: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_pages",
			Help:      "Pages per paginated export.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}, []string{"format"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Served API requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// All returns h wired into every hook slot.
func (h *Hooks) All() observability.Hooks {
	return observability.Hooks{Pipeline: h, Cache: h, HTTP: h}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) stage(name string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	h.stageTotal.WithLabelValues(name, outcome(err)).Inc()
}

func (h *Hooks) OnBuildStart(context.Context, int) {}

func (h *Hooks) OnBuildComplete(_ context.Context, _, nodeCount, warnings int, d time.Duration, err error) {
	h.stage("build", d, err)
	if err == nil {
		h.treeNodes.Observe(float64(nodeCount))
		h.warnings.Add(float64(warnings))
	}
}

func (h *Hooks) OnCaptureStart(context.Context, string, int) {}

func (h *Hooks) OnCaptureComplete(_ context.Context, adapter string, d time.Duration, err error) {
	h.stage("capture", d, err)
}

func (h *Hooks) OnPaginateComplete(_ context.Context, format string, pages int, err error) {
	h.stageTotal.WithLabelValues("paginate", outcome(err)).Inc()
	if err == nil {
		h.pages.WithLabelValues(format).Observe(float64(pages))
	}
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.stage("render", d, err)
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

func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
