package emoji

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// DefaultMaxSide bounds emoji PNGs; they render at one em.
const DefaultMaxSide = 128

// fitPNG downscales the PNG at path in place so neither side exceeds maxSide.
// Smaller images are left untouched.
func fitPNG(path string, maxSide int) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is inside the cache
	if err != nil {
		return err
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return nil
	}
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes())
}
