package imageconv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Nominal dimensions, in CSS pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600

	// ParentWidth and ParentHeight are the viewport percentages resolve against.
	ParentWidth  = 1600
	ParentHeight = 1200

	// Scale is the supersampling factor applied by rasterizers.
	Scale = 2
)

var xmlPrologs = []string{
	`<?xml version="1.0" encoding="UTF-8"?>`,
	`<?xml version="1.0"?>`,
}

// pixelsPerUnit converts absolute CSS units to pixels (96 dpi).
var pixelsPerUnit = map[string]float64{
	"px": 1,
	"pt": 96.0 / 72.0,
	"cm": 96.0 / 2.54,
	"mm": 96.0 / 25.4,
	"in": 96,
}

// Prepared is SVG markup ready for a rasterizer.
type Prepared struct {
	Markup string
	Width  string // with unit, e.g. "120px"
	Height string

	// PixelWidth and PixelHeight are the nominal size in CSS pixels.
	PixelWidth  float64
	PixelHeight float64
}

// PrepareSVG repairs SVG markup for rasterization. Icon sheets fail with
// ErrIconSheet and zero-sized drawings with ErrZeroSize.
func PrepareSVG(content string) (Prepared, error) {
	markup := stripPrologs(content)
	if isIconSheet(markup) {
		return Prepared{}, ErrIconSheet
	}
	if err := checkWellFormed(markup); err != nil {
		return Prepared{}, err
	}

	root, err := findRoot(markup)
	if err != nil {
		return Prepared{}, err
	}

	width := strings.TrimSpace(root.attr("width"))
	height := strings.TrimSpace(root.attr("height"))
	if isZeroLength(width) || isZeroLength(height) {
		return Prepared{}, ErrZeroSize
	}

	if width == "" || height == "" {
		if vb := strings.TrimSpace(root.attr("viewBox")); vb != "" {
			w, h, ok := viewBoxSize(vb)
			if ok && (w == 0 || h == 0) {
				return Prepared{}, ErrZeroSize
			}
			if ok {
				width, height = formatPixels(w), formatPixels(h)
			}
		}
	}
	if width == "" || height == "" {
		width, height = formatPixels(DefaultWidth), formatPixels(DefaultHeight)
	}
	width, height = withUnit(width), withUnit(height)

	pw, err := toPixels(width, ParentWidth)
	if err != nil {
		return Prepared{}, err
	}
	ph, err := toPixels(height, ParentHeight)
	if err != nil {
		return Prepared{}, err
	}
	if pw == 0 || ph == 0 {
		return Prepared{}, ErrZeroSize
	}

	root.set("width", width)
	root.set("height", height)

	return Prepared{
		Markup:      root.replaceIn(markup),
		Width:       width,
		Height:      height,
		PixelWidth:  pw,
		PixelHeight: ph,
	}, nil
}

// IsValidSVG reports whether markup holds an <svg> tag carrying a width,
// height or viewBox attribute.
func IsValidSVG(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "svg" {
				continue
			}
			for _, a := range tok.Attr {
				// The tokenizer lower-cases attribute names.
				if (a.Key == "width" || a.Key == "height" || a.Key == "viewbox") && a.Val != "" {
					return true
				}
			}
			return false
		}
	}
}

func stripPrologs(s string) string {
	for _, p := range xmlPrologs {
		s = strings.ReplaceAll(s, p, "")
	}
	return strings.TrimSpace(s)
}

func isIconSheet(s string) bool {
	return strings.Contains(s, "<symbol") ||
		(strings.Contains(s, "<defs>") && !strings.Contains(s, "<use"))
}

func newDecoder(markup string) *xml.Decoder {
	d := xml.NewDecoder(strings.NewReader(markup))
	d.CharsetReader = charset.NewReaderLabel
	d.Entity = xml.HTMLEntity
	return d
}

// checkWellFormed runs a full strict decode.
func checkWellFormed(markup string) error {
	d := newDecoder(markup)
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSVG, err)
		}
	}
}

// rootTag is the opening tag of the document element and its byte span.
type rootTag struct {
	start, end  int
	name        string
	attrs       []xml.Attr
	selfClosing bool
}

func findRoot(markup string) (*rootTag, error) {
	d := newDecoder(markup)
	for {
		start := int(d.InputOffset())
		tok, err := d.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNotSVG
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedSVG, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(se.Name.Local, "svg") {
			return nil, ErrNotSVG
		}
		end := int(d.InputOffset())
		name := se.Name.Local
		if se.Name.Space != "" {
			name = se.Name.Space + ":" + name
		}
		return &rootTag{
			start:       start,
			end:         end,
			name:        name,
			attrs:       se.Attr,
			selfClosing: strings.HasSuffix(markup[start:end], "/>"),
		}, nil
	}
}

func (r *rootTag) attr(name string) string {
	for _, a := range r.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (r *rootTag) set(name, value string) {
	for i, a := range r.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			r.attrs[i].Value = value
			return
		}
	}
	r.attrs = append(r.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (r *rootTag) render() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(r.name)
	for _, a := range r.attrs {
		b.WriteByte(' ')
		if a.Name.Space != "" {
			b.WriteString(a.Name.Space)
			b.WriteByte(':')
		}
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		_ = xml.EscapeText(&b, []byte(a.Value))
		b.WriteByte('"')
	}
	if r.selfClosing {
		b.WriteString("/>")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// replaceIn swaps the original opening tag in markup for the rendered one.
func (r *rootTag) replaceIn(markup string) string {
	return markup[:r.start] + r.render() + markup[r.end:]
}

// withPixelSize rewrites the root width and height to plain pixel values.
func withPixelSize(markup string, w, h float64) (string, error) {
	root, err := findRoot(markup)
	if err != nil {
		return "", err
	}
	root.set("width", formatPixels(w))
	root.set("height", formatPixels(h))
	return root.replaceIn(markup), nil
}

func viewBoxSize(vb string) (w, h float64, ok bool) {
	parts := strings.FieldsFunc(vb, func(r rune) bool { return r == ' ' || r == ',' })
	if len(parts) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(parts[2], 64)
	h, errH := strconv.ParseFloat(parts[3], 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}

// splitLength separates "12.5mm" into 12.5 and "mm". A missing unit is "".
func splitLength(s string) (float64, string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	unit := ""
	if strings.HasSuffix(s, "%") {
		unit = "%"
	} else {
		for u := range pixelsPerUnit {
			if strings.HasSuffix(s, u) {
				unit = u
				break
			}
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, unit)), 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	return v, unit, nil
}

func isZeroLength(s string) bool {
	if s == "" {
		return false
	}
	v, _, err := splitLength(s)
	return err == nil && v == 0
}

func withUnit(s string) string {
	if _, unit, err := splitLength(s); err == nil && unit == "" {
		return s + "px"
	}
	return s
}

func toPixels(s string, parent float64) (float64, error) {
	v, unit, err := splitLength(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %q", ErrInvalidLength, s)
	}
	switch unit {
	case "%":
		return parent * v / 100, nil
	case "":
		return v, nil
	default:
		return v * pixelsPerUnit[unit], nil
	}
}

func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
