package imageconv

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// ChromeTimeout bounds one page render.
const ChromeTimeout = 30 * time.Second

// svgPage hosts the drawing at the top-left corner of an empty page.
const svgPage = `<!DOCTYPE html><html><head><meta charset="utf-8">` +
	`<style>html,body{margin:0;padding:0}svg{display:block}</style></head><body>%s</body></html>`

// Chrome rasterizes by screenshotting the SVG in headless Chrome. It renders
// everything a browser does, text included, at the cost of a browser process.
type Chrome struct {
	// Browser returns a connected browser, launched lazily and shared with
	// the PDF renderer.
	Browser func() (*rod.Browser, error)
	Scale   float64
	Timeout time.Duration
}

// NewChrome creates a Chrome rasterizer using browser.
func NewChrome(browser func() (*rod.Browser, error)) *Chrome {
	return &Chrome{Browser: browser, Scale: Scale, Timeout: ChromeTimeout}
}

// Rasterize implements Rasterizer.
func (c *Chrome) Rasterize(ctx context.Context, svg []byte, width, height float64, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return ErrZeroSize
	}
	markup, err := withPixelSize(string(svg), width, height)
	if err != nil {
		return err
	}

	browser, err := c.Browser()
	if err != nil {
		return fmt.Errorf("chrome: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("chrome: creating page: %w", err)
	}
	defer func() { _ = page.Close() }()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = ChromeTimeout
	}
	p := page.Context(ctx).Timeout(timeout)

	scale := c.Scale
	if scale <= 0 {
		scale = Scale
	}
	pw, _ := scaledSize(width, height, scale)
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(math.Ceil(width)),
		Height:            int(math.Ceil(height)),
		DeviceScaleFactor: float64(pw) / width,
	}); err != nil {
		return fmt.Errorf("chrome: setting viewport: %w", err)
	}
	if err := p.SetDocumentContent(fmt.Sprintf(svgPage, markup)); err != nil {
		return fmt.Errorf("chrome: loading svg: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("chrome: waiting for load: %w", err)
	}

	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("chrome: screenshot: %w", err)
	}
	return fileutil.WriteFileAtomic(out, data)
}

var _ Rasterizer = (*Chrome)(nil)
