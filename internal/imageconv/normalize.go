package imageconv

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// decoders for formats xelatex cannot embed; they are re-encoded to PNG.
var decoders = map[string]func([]byte) (image.Image, error){
	"image/webp": func(b []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(b)) },
	"image/bmp":  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
	"image/gif":  func(b []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(b)) },
	"image/tiff": func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
}

// extensions for content types the engines embed as-is.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// sniff returns the detected MIME type of data, without parameters.
func sniff(data []byte) string {
	return baseMIME(mimetype.Detect(data).String())
}

// needsReencode reports whether mime must be converted to PNG.
func needsReencode(mime string) bool {
	_, ok := decoders[mime]
	return ok
}

// reencodePNG decodes data as mime and encodes it as PNG. GIFs keep their
// first frame.
func reencodePNG(data []byte, mime string) ([]byte, error) {
	decode, ok := decoders[mime]
	if !ok {
		return nil, fmt.Errorf("no decoder for %s", mime)
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", mime, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
