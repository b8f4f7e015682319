package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates the Markdown could not be rendered to HTML.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle matches the Pandoc default so both engines color
// code the same way.
const DefaultHighlightStyle = "tango"

// Markdown renders the assembled document with goldmark: GFM tables,
// footnotes, heading ids for the table of contents, and chroma
// highlighting with inline styles so the page needs no stylesheet for code.
type Markdown struct {
	gm goldmark.Markdown
}

// NewMarkdown uses the named chroma style; unknown names fall back to
// chroma's default.
func NewMarkdown(highlightStyle string) *Markdown {
	if highlightStyle == "" {
		highlightStyle = DefaultHighlightStyle
	}
	return &Markdown{gm: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithXHTML()),
	)}
}

// Page renders src as a complete HTML5 page titled title.
//
// goldmark cannot be interrupted, so a large document renders in its own
// goroutine and cancellation returns without waiting for it.
func (m *Markdown) Page(ctx context.Context, title, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		page string
		err  error
	}
	done := make(chan rendered, 1)
	go func() {
		var body bytes.Buffer
		if err := m.gm.Convert([]byte(src), &body); err != nil {
			done <- rendered{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- rendered{page: wrapPage(title, body.Bytes())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.page, r.err
	}
}

func wrapPage(title string, body []byte) string {
	var sb strings.Builder
	sb.Grow(len(body) + 256)
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"generator\" content=\"repo2pdf\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
