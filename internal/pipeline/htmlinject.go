package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrTitleRender indicates the title block template failed.
var ErrTitleRender = errors.New("title template rendering failed")

// CSSInjection injects a stylesheet as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts css before </head>, else after <body>, else in front.
// "</" inside css is escaped so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, css string) string {
	if css == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(css) + "</style>"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return insertAfterBody(htmlContent, styleBlock)
}

func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// TitleData holds the title block shown on the first page.
type TitleData struct {
	Title    string
	Subtitle string // e.g. "main @ 0123456"
	Author   string
	Date     string
}

const titleTemplate = `<section class="title-block">
<h1>{{.Title}}</h1>
{{- if .Subtitle}}
<p class="subtitle">{{.Subtitle}}</p>
{{- end}}
{{- if .Author}}
<p class="author">{{.Author}}</p>
{{- end}}
{{- if .Date}}
<p class="date">{{.Date}}</p>
{{- end}}
</section><span data-title-end></span>`

// TitleInjection renders and injects the title block.
type TitleInjection struct {
	tmpl *template.Template
}

// NewTitleInjection creates a TitleInjection from the built-in template.
func NewTitleInjection() *TitleInjection {
	return &TitleInjection{tmpl: template.Must(template.New("title").Parse(titleTemplate))}
}

// InjectTitle renders the title block and injects it right after <body>.
// If data is nil, returns htmlContent unchanged.
func (t *TitleInjection) InjectTitle(ctx context.Context, htmlContent string, data *TitleData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleRender, err)
	}
	return insertAfterBody(htmlContent, buf.String()), nil
}

// TOCData configures the table of contents.
type TOCData struct {
	Title    string
	MaxDepth int // deepest heading level listed; 0 means 2
}

// headingInfo is an extracted heading.
type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// headingPattern matches h1-h6 tags with an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var titleEndPattern = regexp.MustCompile(`(?i)<span[^>]*data-title-end[^>]*>\s*</span>`)

// stripHTMLTags removes tags and decodes entities so the text is not
// double-escaped when written back into the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings returns headings up to maxDepth, in document order.
// Headings without ids and those inside the title block are skipped.
func extractHeadings(htmlContent string, maxDepth int) []headingInfo {
	if loc := titleEndPattern.FindStringIndex(htmlContent); loc != nil {
		htmlContent = htmlContent[loc[1]:]
	}
	var headings []headingInfo
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level > maxDepth || m[2] == "" {
			continue
		}
		headings = append(headings, headingInfo{Level: level, ID: m[2], Text: stripHTMLTags(m[3])})
	}
	return headings
}

// renderTOC writes the contents as flat, depth-classed entries.
func renderTOC(headings []headingInfo, title string) string {
	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if title != "" {
		buf.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}
	buf.WriteString(`<div class="toc-list">`)
	for _, h := range headings {
		fmt.Fprintf(&buf, `<div class="toc-item depth-%d"><a href="#%s">%s</a></div>`,
			h.Level, html.EscapeString(h.ID), html.EscapeString(h.Text))
	}
	buf.WriteString(`</div></nav>`)
	return buf.String()
}

// TOCInjection generates a table of contents from heading ids.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC inserts the table of contents after the title block, or after
// <body> when there is none. A document without headings is unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	depth := data.MaxDepth
	if depth <= 0 {
		depth = 2
	}
	headings := extractHeadings(htmlContent, depth)
	if len(headings) == 0 {
		return htmlContent, nil
	}
	toc := renderTOC(headings, data.Title)

	if loc := titleEndPattern.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[1]] + toc + htmlContent[loc[1]:], nil
	}
	return insertAfterBody(htmlContent, toc), nil
}

// insertAfterBody places fragment right after the opening <body> tag, or
// prepends it when there is none.
func insertAfterBody(htmlContent, fragment string) string {
	lower := strings.ToLower(htmlContent)
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			pos := idx + closeIdx + 1
			return htmlContent[:pos] + fragment + htmlContent[pos:]
		}
	}
	return fragment + htmlContent
}
