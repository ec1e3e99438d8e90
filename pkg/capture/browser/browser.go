// Package browser captures a tree projection by laying it out as HTML cards
// in headless Chrome and taking a full-page screenshot.
//
// This reproduces the portal's on-screen look exactly, at the cost of
// needing a Chrome binary. The launcher downloads one on first use when
// none is installed.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/heritage/pkg/capture"
)

// Adapter drives a headless browser.
type Adapter struct {
	// ControlURL connects to an already running browser. Empty launches a
	// new headless instance per capture.
	ControlURL string
	// ViewportWidth is the layout width in CSS pixels before the page grows
	// to fit its content.
	ViewportWidth int
}

// Capture renders v.Rows as HTML and screenshots the whole document.
// Readiness is the page's load event; there is no fixed settle delay.
func (a Adapter) Capture(ctx context.Context, v capture.View, opts capture.Options) (capture.Raster, error) {
	opts = opts.WithDefaults()
	if len(v.Rows) == 0 {
		return capture.Raster{DeviceScale: opts.DeviceScale}, nil
	}

	controlURL := a.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true).Context(ctx)
		defer l.Cleanup()
		u, err := l.Launch()
		if err != nil {
			return capture.Raster{}, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return capture.Raster{}, fmt.Errorf("connect to chrome: %w", err)
	}
	defer b.Close()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return capture.Raster{}, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	width := a.ViewportWidth
	if width <= 0 {
		width = 1024
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            768,
		DeviceScaleFactor: opts.DeviceScale,
		Mobile:            false,
	}).Call(page); err != nil {
		return capture.Raster{}, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(Document(v.Rows, opts.Background)); err != nil {
		return capture.Raster{}, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return capture.Raster{}, fmt.Errorf("wait load: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return capture.Raster{}, fmt.Errorf("screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return capture.Raster{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return capture.FromImage(img, opts.DeviceScale), nil
}
