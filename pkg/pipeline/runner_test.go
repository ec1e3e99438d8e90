package pipeline

import (
	"bytes"
	"context"
	"image"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/blob/memory"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/observability"
	"github.com/matzehuels/heritage/pkg/paginate"
	"github.com/matzehuels/heritage/pkg/render/view"
)

func testRecords(t *testing.T) *family.RecordSet {
	t.Helper()
	rs, err := family.NewRecordSet([]family.Member{
		{SerNo: 1, Name: "Ram", Gender: family.GenderMale, Level: 1, Spouse: &family.SpouseRef{Name: "Sita", SerNo: 4}, ChildrenSerNos: []int{2, 3}},
		{SerNo: 2, Name: "Lav", Gender: family.GenderMale, Level: 2, FatherSerNo: family.Ref(1), ChildrenSerNos: []int{5}},
		{SerNo: 3, Name: "Kush", Gender: family.GenderMale, Level: 2, FatherSerNo: family.Ref(1)},
		{SerNo: 4, Name: "Sita", Gender: family.GenderFemale, Level: 1, Spouse: &family.SpouseRef{Name: "Ram", SerNo: 1}},
		{SerNo: 5, Name: "Atithi", Level: 3, FatherSerNo: family.Ref(2), Biography: "Ruled *Ayodhya*."},
	})
	if err != nil {
		t.Fatal(err)
	}
	return rs
}

func raster(w, h int, scale float64) capture.Raster {
	return capture.FromImage(image.NewRGBA(image.Rect(0, 0, w, h)), scale)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

// countingAdapter returns r and counts calls and the rows it was given.
func countingAdapter(r capture.Raster, calls, rows *int32) capture.Adapter {
	return capture.Func(func(_ context.Context, v capture.View, _ capture.Options) (capture.Raster, error) {
		atomic.AddInt32(calls, 1)
		atomic.StoreInt32(rows, int32(len(v.Rows)))
		return r, nil
	})
}

func TestExportPaginatesMultiPage(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(),
		WithAdapter(AdapterOutline, capture.Static(raster(1000, 3000, 2))))

	res, err := r.Export(context.Background(), testRecords(t), Options{
		Root:    1,
		Formats: []string{FormatPDF, FormatJSON, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Layout.Format.Name != "A3" || res.Layout.Orientation != paginate.Portrait {
		t.Errorf("format = %s %s, want A3 portrait", res.Layout.Format.Name, res.Layout.Orientation)
	}
	if res.Stats.PageCount != 3 {
		t.Errorf("pages = %d, want 3", res.Stats.PageCount)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPDF], []byte("%PDF")) {
		t.Error("pdf artifact is not a PDF")
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"pageCount": 3`)) {
		t.Errorf("json manifest = %s", res.Artifacts[FormatJSON])
	}
	if len(res.Artifacts[FormatPNG]) == 0 {
		t.Error("png artifact empty")
	}
	if res.Stats.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want 4", res.Stats.NodeCount)
	}
}

func TestExportUsesExpandedSnapshot(t *testing.T) {
	var calls, rows int32
	r := NewRunner(nil, nil, quietLogger(),
		WithAdapter(AdapterOutline, countingAdapter(raster(400, 300, 2), &calls, &rows)))

	model := view.NewModel()
	model.SetExpanded(1, false)
	model.SetExpanded(2, false)

	res, err := r.Export(context.Background(), testRecords(t), Options{Root: 1, Model: model})
	if err != nil {
		t.Fatal(err)
	}
	if rows != 4 || res.Rows != 4 {
		t.Errorf("adapter saw %d rows, result %d; want 4", rows, res.Rows)
	}
	if model.IsExpanded(1) || model.IsExpanded(2) {
		t.Error("export modified the interactive model")
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name    string
		adapter capture.Adapter
		opts    Options
		code    errors.Code
	}{
		{"missing root", capture.Static(raster(10, 10, 1)), Options{Root: 99}, errors.ErrCodeNotFound},
		{"empty capture", capture.Static(capture.Raster{}), Options{Root: 1}, errors.ErrCodeCaptureEmpty},
		{"too many pages", capture.Static(raster(100, 20000, 1)), Options{Root: 1, Policy: paginate.Policy{MarginMm: 10, MaxPages: 2}}, errors.ErrCodeContentTooLarge},
		{"bad options", capture.Static(raster(10, 10, 1)), Options{Root: 1, Formats: []string{"svg"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(nil, nil, quietLogger(), WithAdapter(AdapterOutline, tt.adapter))
			res, err := r.Export(context.Background(), testRecords(t), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if res != nil {
				t.Errorf("partial result returned: %+v", res)
			}
		})
	}
}

func TestExportTimeout(t *testing.T) {
	blocking := capture.Func(func(ctx context.Context, _ capture.View, _ capture.Options) (capture.Raster, error) {
		<-ctx.Done()
		return capture.Raster{}, ctx.Err()
	})
	r := NewRunner(nil, nil, quietLogger(), WithAdapter(AdapterOutline, blocking))

	_, err := r.Export(context.Background(), testRecords(t), Options{Root: 1, Timeout: 20 * time.Millisecond})
	if !errors.Is(err, errors.ErrCodeExportTimeout) {
		t.Errorf("err = %v, want EXPORT_TIMEOUT", err)
	}
}

func TestExportCaches(t *testing.T) {
	c, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	var calls, rows int32
	hooks := &recordingHooks{}
	r := NewRunner(c, nil, quietLogger(),
		WithAdapter(AdapterOutline, countingAdapter(raster(300, 200, 2), &calls, &rows)),
		WithHooks(observability.Hooks{Cache: hooks}))

	ctx := context.Background()
	first, err := r.Export(ctx, testRecords(t), Options{Root: 1})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Export(ctx, testRecords(t), Options{Root: 1})
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("adapter called %d times, want 1", calls)
	}
	if first.CacheInfo.RasterHit || !second.CacheInfo.RasterHit || !second.CacheInfo.RenderHit {
		t.Errorf("cache info = %+v / %+v", first.CacheInfo, second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatPDF], second.Artifacts[FormatPDF]) {
		t.Error("cached pdf differs")
	}
	if hooks.hits.Load() != 2 {
		t.Errorf("cache hits = %d, want 2", hooks.hits.Load())
	}

	// Refresh bypasses the cache.
	if _, err := r.Export(ctx, testRecords(t), Options{Root: 1, Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("adapter called %d times after refresh, want 2", calls)
	}
}

func TestExportArtifactKeyCoversDocumentOptions(t *testing.T) {
	a3Only := paginate.DefaultPolicy()
	a3Only.Standard = paginate.A3

	tests := []struct {
		name   string
		change func(*Options)
	}{
		{"author", func(o *Options) { o.Author = "Bob" }},
		{"title", func(o *Options) { o.Title = "Other" }},
		{"page formats", func(o *Options) { o.Policy = a3Only }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cache.NewMemoryCache(16)
			if err != nil {
				t.Fatal(err)
			}
			var calls, rows int32
			r := NewRunner(c, nil, quietLogger(),
				WithAdapter(AdapterOutline, countingAdapter(raster(300, 200, 2), &calls, &rows)))

			ctx := context.Background()
			first := Options{Root: 1, Author: "Alice", Title: "Tree"}
			if _, err := r.Export(ctx, testRecords(t), first); err != nil {
				t.Fatal(err)
			}
			second := Options{Root: 1, Author: "Alice", Title: "Tree"}
			tt.change(&second)
			res, err := r.Export(ctx, testRecords(t), second)
			if err != nil {
				t.Fatal(err)
			}
			if !res.CacheInfo.RasterHit {
				t.Error("raster should still be shared")
			}
			if res.CacheInfo.RenderHit {
				t.Errorf("changing %s reused the cached document", tt.name)
			}
		})
	}
}

func TestExportScopedKeyer(t *testing.T) {
	c, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	var calls, rows int32
	adapter := WithAdapter(AdapterOutline, countingAdapter(raster(300, 200, 2), &calls, &rows))
	a := NewRunner(c, nil, quietLogger(), adapter, WithKeyer(cache.NewScopedKeyer(nil, "a:")))
	b := NewRunner(c, nil, quietLogger(), adapter, WithKeyer(cache.NewScopedKeyer(nil, "b:")))

	ctx := context.Background()
	for _, r := range []*Runner{a, b} {
		res, err := r.Export(ctx, testRecords(t), Options{Root: 1})
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.RasterHit {
			t.Error("scoped runner hit another scope's raster")
		}
	}
	if calls != 2 {
		t.Errorf("adapter called %d times, want 2", calls)
	}
}

func TestExportBatch(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(),
		WithAdapter(AdapterOutline, capture.Static(raster(200, 100, 2))),
		WithConcurrency(2))

	results, err := r.ExportBatch(context.Background(), testRecords(t), []int{1, 2, 4}, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	wantNodes := []int{4, 2, 1}
	for i, res := range results {
		if res.Tree.Root.SerNo() != []int{1, 2, 4}[i] || res.Stats.NodeCount != wantNodes[i] {
			t.Errorf("result %d: root %d nodes %d", i, res.Tree.Root.SerNo(), res.Stats.NodeCount)
		}
	}

	if _, err := r.ExportBatch(context.Background(), testRecords(t), []int{1, 42}, Options{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("batch with missing root err = %v", err)
	}
}

func TestExportWithOutlineAdapter(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Export(context.Background(), testRecords(t), Options{Root: 1, DeviceScale: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Raster.Empty() || res.Stats.PageCount < 1 {
		t.Errorf("raster %v, pages %d", res.Raster, res.Stats.PageCount)
	}
}

func TestPublish(t *testing.T) {
	store := memory.New()
	r := NewRunner(nil, nil, quietLogger(),
		WithAdapter(AdapterOutline, capture.Static(raster(300, 200, 2))),
		WithStore(store))

	ctx := context.Background()
	res, err := r.Export(ctx, testRecords(t), Options{Root: 1, Formats: []string{FormatPDF, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	pub, err := r.Publish(ctx, res)
	if err != nil {
		t.Fatal(err)
	}
	if len(pub) != 2 {
		t.Fatalf("published %d artifacts, want 2", len(pub))
	}
	if info := pub[FormatPDF]; !strings.HasPrefix(info.Key, "exports/1/") || info.ContentType != "application/pdf" {
		t.Errorf("pdf info = %+v", info)
	}
	list, _ := store.List(ctx, "exports/1/")
	if len(list) != 2 {
		t.Errorf("store has %d objects", len(list))
	}
}

func TestPublishWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Publish(context.Background(), &Result{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestReportAndProfile(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	rs := testRecords(t)

	text, tree, err := r.Report(ctx, rs, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tree.NodeCount() != 4 || !strings.Contains(text, "Ram (#1) - Male (Spouse: Sita)") {
		t.Errorf("report:\n%s", text)
	}

	docx, err := r.ReportDOCX(ctx, rs, 1)
	if err != nil || !bytes.HasPrefix(docx, []byte("PK")) {
		t.Errorf("docx = %d bytes, %v", len(docx), err)
	}

	profile, err := r.Profile(rs, 1, false)
	if err != nil || !strings.Contains(string(profile), "Sita") {
		t.Errorf("profile = %q, %v", profile, err)
	}
	html, err := r.Profile(rs, 5, true)
	if err != nil || !strings.Contains(string(html), "<em>Ayodhya</em>") {
		t.Errorf("html profile = %q, %v", html, err)
	}
	if _, err := r.Profile(rs, 42, false); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing member err = %v", err)
	}
}

func TestRecordsHash(t *testing.T) {
	a, err := RecordsHash(testRecords(t))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RecordsHash(testRecords(t))
	if a != b {
		t.Error("hash not deterministic")
	}
	other, _ := family.NewRecordSet([]family.Member{{SerNo: 1, Name: "Other"}})
	c, _ := RecordsHash(other)
	if a == c {
		t.Error("different records hash equal")
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	hits atomic.Int32
}

func (h *recordingHooks) OnCacheHit(context.Context, string) { h.hits.Add(1) }

var _ blob.Store = (*memory.Store)(nil)
