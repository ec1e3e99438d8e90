package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/heritage/pkg/buildinfo"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/paginate"
	"github.com/matzehuels/heritage/pkg/render/sink"
)

// Render emits every format in opts.Formats. Nothing is returned unless all
// formats succeed.
func Render(tree *genealogy.Tree, r capture.Raster, l *paginate.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPDF:
			data, err = sink.RenderPDF(r, l,
				sink.WithTitle(opts.Title),
				sink.WithAuthor(opts.Author),
				sink.WithCreator(buildinfo.Creator()))
		case FormatPNG:
			data, err = sink.RenderPNG(r)
		case FormatJSON:
			jsonOpts := []sink.JSONOption{
				sink.WithJSONDeviceScale(r.Scale()),
				sink.WithJSONWarnings(warningStrings(tree)),
			}
			if tree != nil && tree.Root != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONRoot(tree.Root.SerNo(), tree.Root.Name))
			}
			data, err = sink.RenderJSON(l, jsonOpts...)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderWithCacheInfo renders with per-format caching keyed by the raster.
func (r *Runner) renderWithCacheInfo(ctx context.Context, rasterKey string, tree *genealogy.Tree, raster capture.Raster, l *paginate.Layout, opts Options) (map[string][]byte, bool, error) {
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(rasterKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			r.Hooks.Cache.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		r.Hooks.Cache.OnCacheMiss(ctx, "artifact")
	}

	r.Hooks.Pipeline.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(tree, raster, l, opts)
	r.Hooks.Pipeline.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(rasterKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		r.Hooks.Cache.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

func warningStrings(tree *genealogy.Tree) []string {
	if tree == nil || len(tree.Warnings) == 0 {
		return nil
	}
	out := make([]string, len(tree.Warnings))
	for i, w := range tree.Warnings {
		out[i] = w.String()
	}
	return out
}
