// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks are plain interfaces injected into the components that emit events.
// There is no global registry: a pipeline runner or API server receives a
// [Hooks] value at construction and calls it directly. Every hook set has a
// no-op implementation, and [Hooks.WithDefaults] fills unset fields with them.
//
// # Usage
//
//	hooks := observability.Hooks{Pipeline: prom.New(reg)}
//	runner := pipeline.NewRunner(cache, logger, pipeline.WithHooks(hooks))
//
// Components emit events around each stage:
//
//	h.Pipeline.OnCaptureStart(ctx, adapter, rows)
//	// ... capture ...
//	h.Pipeline.OnCaptureComplete(ctx, adapter, time.Since(start), err)
package observability

import (
	"context"
	"time"
)

// PipelineHooks receives events from the export pipeline.
type PipelineHooks interface {
	// Tree construction
	OnBuildStart(ctx context.Context, root int)
	OnBuildComplete(ctx context.Context, root, nodeCount, warnings int, duration time.Duration, err error)

	// Raster capture
	OnCaptureStart(ctx context.Context, adapter string, rows int)
	OnCaptureComplete(ctx context.Context, adapter string, duration time.Duration, err error)

	// Pagination
	OnPaginateComplete(ctx context.Context, format string, pages int, err error)

	// Document sinks
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnResponse records a served request. route is the matched pattern.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Hooks bundles the hook sets handed to a component.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

// Noop returns hooks that discard every event.
func Noop() Hooks {
	return Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

// WithDefaults returns h with nil fields replaced by no-op implementations.
func (h Hooks) WithDefaults() Hooks {
	if h.Pipeline == nil {
		h.Pipeline = NoopPipelineHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnCaptureStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnCaptureComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnPaginateComplete(context.Context, string, int, error)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
