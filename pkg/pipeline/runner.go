package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
	heritageio "github.com/matzehuels/heritage/pkg/io"
	"github.com/matzehuels/heritage/pkg/observability"
	"github.com/matzehuels/heritage/pkg/paginate"
	"github.com/matzehuels/heritage/pkg/render/sink"
	"github.com/matzehuels/heritage/pkg/render/view"
)

// Runner encapsulates export execution with caching.
//
// The Runner is stateless except for its collaborators; it does not keep
// export results. Multiple goroutines can use the same Runner.
type Runner struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	Hooks       observability.Hooks
	Store       blob.Store
	Concurrency int

	adapters  map[string]capture.Adapter
	adapterCf AdapterConfig
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHooks sets the observability hooks.
func WithHooks(h observability.Hooks) RunnerOption {
	return func(r *Runner) { r.Hooks = h }
}

// WithStore sets the artifact store used by Publish.
func WithStore(s blob.Store) RunnerOption {
	return func(r *Runner) { r.Store = s }
}

// WithAdapter overrides the adapter registered under name.
func WithAdapter(name string, a capture.Adapter) RunnerOption {
	return func(r *Runner) { r.adapters[name] = a }
}

// WithAdapterConfig sets settings for the built-in adapters.
func WithAdapterConfig(cfg AdapterConfig) RunnerOption {
	return func(r *Runner) { r.adapterCf = cfg }
}

// WithKeyer replaces the keyer passed to NewRunner.
func WithKeyer(k cache.Keyer) RunnerOption {
	return func(r *Runner) {
		if k != nil {
			r.Keyer = k
		}
	}
}

// WithConcurrency bounds parallel exports in ExportBatch.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) { r.Concurrency = n }
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Concurrency: DefaultConcurrency,
		adapters:    make(map[string]capture.Adapter),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Hooks = r.Hooks.WithDefaults()
	if r.Concurrency < 1 {
		r.Concurrency = 1
	}
	return r
}

// Export runs the complete pipeline for opts.Root.
func (r *Runner) Export(ctx context.Context, records *family.RecordSet, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	recordsHash, err := RecordsHash(records)
	if err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Build
	buildStart := time.Now()
	tree, err := r.Build(ctx, records, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = tree
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = tree.NodeCount()
	result.Stats.WarningCount = len(tree.Warnings)

	// Stage 2: Expand on a private snapshot
	model := opts.Model
	if model == nil {
		model = view.NewModel()
	}
	rows := model.ForExport(tree).Project(tree)
	result.Rows = len(rows)

	opts.Logger.Debug("expanded tree", "root", opts.Root, "rows", len(rows))

	// Stage 3: Capture
	captureStart := time.Now()
	rasterKey := r.Keyer.RasterKey(recordsHash, opts.Root, opts.RasterKeyOpts())
	raster, rasterHit, err := r.captureWithCacheInfo(ctx, rasterKey, capture.View{Tree: tree, Rows: rows, Strategy: opts.Adapter}, opts)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	result.Raster = raster
	result.Stats.CaptureTime = time.Since(captureStart)
	result.CacheInfo.RasterHit = rasterHit

	opts.Logger.Info("captured tree",
		"root", opts.Root,
		"raster", raster.String(),
		"cached", rasterHit,
		"duration", result.Stats.CaptureTime)

	// Stage 4: Paginate
	layout, err := paginate.Paginate(raster, opts.Policy)
	r.Hooks.Pipeline.OnPaginateComplete(ctx, layoutFormat(layout), layoutPages(layout), err)
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	result.Layout = layout
	result.Stats.PageCount = layout.PageCount()

	opts.Logger.Info("paginated",
		"format", layout.Format.Name,
		"orientation", layout.Orientation,
		"pages", layout.PageCount())

	// Stage 5: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, rasterKey, tree, raster, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExportBatch exports several roots concurrently with shared options.
// Results are in the order of roots. The first failure cancels the rest.
func (r *Runner) ExportBatch(ctx context.Context, records *family.RecordSet, roots []int, opts Options) ([]*Result, error) {
	results := make([]*Result, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for i, root := range roots {
		o := opts
		o.Root = root
		o.validated = false
		g.Go(func() error {
			res, err := r.Export(gctx, records, o)
			if err != nil {
				return fmt.Errorf("root %d: %w", root, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Build reconstructs the tree below root.
func (r *Runner) Build(ctx context.Context, records *family.RecordSet, root int) (*genealogy.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.Hooks.Pipeline.OnBuildStart(ctx, root)
	start := time.Now()
	tree, err := genealogy.New(records, genealogy.WithLogger(r.Logger)).BuildTree(root)
	nodes, warnings := 0, 0
	if tree != nil {
		nodes, warnings = tree.NodeCount(), len(tree.Warnings)
	}
	r.Hooks.Pipeline.OnBuildComplete(ctx, root, nodes, warnings, time.Since(start), err)
	return tree, err
}

// adapter resolves opts.Adapter, preferring registered overrides.
func (r *Runner) adapter(opts Options) (capture.Adapter, error) {
	if a, ok := r.adapters[opts.Adapter]; ok {
		return a, nil
	}
	cfg := r.adapterCf
	if opts.RowHeight > 0 {
		cfg.RowHeight = opts.RowHeight
	}
	return NewAdapter(opts.Adapter, cfg)
}

func (r *Runner) captureWithCacheInfo(ctx context.Context, key string, v capture.View, opts Options) (capture.Raster, bool, error) {
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if img, err := png.Decode(bytes.NewReader(data)); err == nil {
				r.Hooks.Cache.OnCacheHit(ctx, "raster")
				return capture.FromImage(img, opts.DeviceScale), true, nil
			}
		}
		r.Hooks.Cache.OnCacheMiss(ctx, "raster")
	}

	a, err := r.adapter(opts)
	if err != nil {
		return capture.Raster{}, false, err
	}
	if opts.Timeout > 0 {
		a = capture.WithTimeout(a, opts.Timeout)
	}

	r.Hooks.Pipeline.OnCaptureStart(ctx, opts.Adapter, len(v.Rows))
	start := time.Now()
	raster, err := a.Capture(ctx, v, opts.CaptureOptions())
	r.Hooks.Pipeline.OnCaptureComplete(ctx, opts.Adapter, time.Since(start), err)
	if err != nil {
		return capture.Raster{}, false, err
	}

	if !raster.Empty() && raster.Image != nil {
		if data, err := sink.RenderPNG(raster); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLRaster); err == nil {
				r.Hooks.Cache.OnCacheSet(ctx, "raster", len(data))
			}
		}
	}
	return raster, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// RecordsHash returns a content hash of the record set, used in cache keys.
func RecordsHash(records *family.RecordSet) (string, error) {
	var buf bytes.Buffer
	if err := heritageio.WriteRecords(records, &buf, heritageio.FormatJSON); err != nil {
		return "", fmt.Errorf("hash records: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

func layoutFormat(l *paginate.Layout) string {
	if l == nil {
		return ""
	}
	return l.Format.Name
}

func layoutPages(l *paginate.Layout) int {
	if l == nil {
		return 0
	}
	return l.PageCount()
}
