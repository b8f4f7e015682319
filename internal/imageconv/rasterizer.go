package imageconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// maxRasterSide caps the output size of one side, in pixels.
const maxRasterSide = 8192

// Rasterizer renders SVG markup to a PNG file at out. width and height are
// the nominal size in CSS pixels; implementations apply their own scale.
// On error, out must not be left behind.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height float64, out string) error
}

// Chain tries each rasterizer in order until one succeeds.
type Chain []Rasterizer

// Rasterize implements Rasterizer.
func (c Chain) Rasterize(ctx context.Context, svg []byte, width, height float64, out string) error {
	if len(c) == 0 {
		return ErrNoRasterizer
	}
	var errs []error
	for _, r := range c {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.Rasterize(ctx, svg, width, height, out)
		if err == nil {
			return nil
		}
		_ = os.Remove(out)
		errs = append(errs, err)
	}
	return fmt.Errorf("%w: %w", ErrRasterize, errors.Join(errs...))
}

// OKSVG rasterizes in process with srwiley/oksvg. It covers paths, basic
// shapes and gradients but not text.
type OKSVG struct {
	Scale float64
}

// NewOKSVG creates an OKSVG rasterizer at the default scale.
func NewOKSVG() *OKSVG {
	return &OKSVG{Scale: Scale}
}

// Rasterize implements Rasterizer.
func (o *OKSVG) Rasterize(ctx context.Context, svg []byte, width, height float64, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return ErrZeroSize
	}

	// oksvg does not understand percentages; hand it plain pixels.
	markup, err := withPixelSize(string(svg), width, height)
	if err != nil {
		return err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("oksvg: %w", err)
	}
	if len(icon.SVGPaths) == 0 {
		return ErrEmptyDrawing
	}
	if icon.ViewBox.W == 0 {
		icon.ViewBox.W = width
	}
	if icon.ViewBox.H == 0 {
		icon.ViewBox.H = height
	}

	pw, ph := scaledSize(width, height, o.scale())
	icon.SetTarget(0, 0, float64(pw), float64(ph))

	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	scanner := rasterx.NewScannerGV(pw, ph, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1)

	return writePNG(out, img)
}

func (o *OKSVG) scale() float64 {
	if o.Scale <= 0 {
		return Scale
	}
	return o.Scale
}

// scaledSize applies scale, shrinking it when a side would exceed maxRasterSide.
func scaledSize(width, height, scale float64) (int, int) {
	if longest := math.Max(width, height) * scale; longest > maxRasterSide {
		scale *= maxRasterSide / longest
	}
	pw := int(math.Max(1, math.Round(width*scale)))
	ph := int(math.Max(1, math.Round(height*scale)))
	return pw, ph
}

func writePNG(out string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return fileutil.WriteFileAtomic(out, buf.Bytes())
}

// Compile-time interface checks.
var (
	_ Rasterizer = Chain(nil)
	_ Rasterizer = (*OKSVG)(nil)
)
