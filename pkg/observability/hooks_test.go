package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	h := Noop()

	h.Pipeline.OnBuildStart(ctx, 1)
	h.Pipeline.OnBuildComplete(ctx, 1, 10, 0, time.Second, nil)
	h.Pipeline.OnCaptureStart(ctx, "outline", 10)
	h.Pipeline.OnCaptureComplete(ctx, "outline", time.Second, nil)
	h.Pipeline.OnPaginateComplete(ctx, "A4", 2, nil)
	h.Pipeline.OnRenderStart(ctx, []string{"pdf"})
	h.Pipeline.OnRenderComplete(ctx, []string{"pdf"}, time.Second, nil)

	h.Cache.OnCacheHit(ctx, "raster")
	h.Cache.OnCacheMiss(ctx, "artifact")
	h.Cache.OnCacheSet(ctx, "artifact", 1024)

	h.HTTP.OnResponse(ctx, "GET", "/health", 200, time.Millisecond)
}

func TestWithDefaults(t *testing.T) {
	custom := &testPipelineHooks{}
	h := Hooks{Pipeline: custom}.WithDefaults()

	if h.Pipeline != custom {
		t.Error("WithDefaults replaced a set field")
	}
	if _, ok := h.Cache.(NoopCacheHooks); !ok {
		t.Errorf("Cache = %T, want NoopCacheHooks", h.Cache)
	}
	if _, ok := h.HTTP.(NoopHTTPHooks); !ok {
		t.Errorf("HTTP = %T, want NoopHTTPHooks", h.HTTP)
	}
}

func TestHooksAreIndependent(t *testing.T) {
	a := &testPipelineHooks{}
	b := &testPipelineHooks{}
	ha := Hooks{Pipeline: a}.WithDefaults()
	hb := Hooks{Pipeline: b}.WithDefaults()

	ha.Pipeline.OnBuildStart(context.Background(), 1)
	hb.Pipeline.OnBuildStart(context.Background(), 2)
	hb.Pipeline.OnBuildStart(context.Background(), 3)

	if a.builds != 1 || b.builds != 2 {
		t.Errorf("builds = %d, %d; want 1, 2", a.builds, b.builds)
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	builds int
}

func (h *testPipelineHooks) OnBuildStart(context.Context, int) { h.builds++ }
