// Package imageconv turns image references found in a repository into local
// raster files that a PDF engine can embed.
//
// Three inputs are handled:
//
//   - local vector files (SVG), rasterized into images/<content-hash>.png
//   - local raster files, copied into images/<basename>
//   - remote URLs, downloaded into images/<url-hash>.<ext>
//
// SVG markup is repaired before rasterization (XML prolog removed, missing
// dimensions derived from the viewBox or defaulted to 800x600, units added).
// Icon sheets and zero-size drawings are refused. Rasterization goes through
// a Chain of Rasterizer implementations: the pure Go OKSVG renderer first,
// then the Inkscape CLI, then optionally headless Chrome.
//
// None of the Converter methods return errors: a failed conversion reports
// false and leaves no file behind, and the caller drops the reference.
package imageconv
