package imageconv

import "errors"

// Sentinel errors for image conversion.
var (
	// ErrIconSheet marks sprite sheets (<symbol>, or <defs> without <use>).
	ErrIconSheet = errors.New("svg is an icon definition sheet")

	// ErrZeroSize marks drawings whose width or height resolves to zero.
	ErrZeroSize = errors.New("svg has zero dimensions")

	// ErrMalformedSVG indicates the markup is not well-formed XML.
	ErrMalformedSVG = errors.New("malformed svg")

	// ErrNotSVG indicates the document root is not an <svg> element.
	ErrNotSVG = errors.New("root element is not svg")

	// ErrInvalidLength indicates a width or height that cannot be converted to pixels.
	ErrInvalidLength = errors.New("invalid svg length")

	// ErrRasterize indicates every rasterizer failed.
	ErrRasterize = errors.New("rasterization failed")

	// ErrEmptyDrawing indicates the renderer found nothing it could draw.
	ErrEmptyDrawing = errors.New("svg has no drawable paths")

	// ErrNoRasterizer indicates an empty rasterizer chain.
	ErrNoRasterizer = errors.New("no rasterizer configured")

	// ErrDownload indicates a failed or non-200 remote fetch.
	ErrDownload = errors.New("download failed")
)
