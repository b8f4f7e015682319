package pipeline

import (
	"context"
	"fmt"
)

// Document describes one rendered HTML document.
type Document struct {
	Title   *TitleData // nil omits the title block
	TOC     *TOCData   // nil omits the table of contents
	CSS     string
	BaseDir string // relative links resolve here; usually the temp dir
}

// Renderer runs the Markdown to HTML stages in order.
type Renderer struct {
	markdown *Markdown
	title    *TitleInjection
	toc      *TOCInjection
	css      *CSSInjection
}

// NewRenderer creates a Renderer highlighting code with the named chroma style.
func NewRenderer(highlightStyle string) *Renderer {
	return &Renderer{
		markdown: NewMarkdown(highlightStyle),
		title:    NewTitleInjection(),
		toc:      NewTOCInjection(),
		css:      &CSSInjection{},
	}
}

// Render converts markdown into a complete, styled HTML document.
func (r *Renderer) Render(ctx context.Context, markdown string, doc Document) (string, error) {
	pageTitle := ""
	if doc.Title != nil {
		pageTitle = doc.Title.Title
	}

	out, err := r.markdown.Page(ctx, pageTitle, markdown)
	if err != nil {
		return "", err
	}
	if out, err = ResolveLinks(out, doc.BaseDir); err != nil {
		return "", fmt.Errorf("%w: resolving links: %v", ErrHTMLConversion, err)
	}
	// The TOC anchors on the title block marker, so the title goes in first.
	if out, err = r.title.InjectTitle(ctx, out, doc.Title); err != nil {
		return "", err
	}
	if out, err = r.toc.InjectTOC(ctx, out, doc.TOC); err != nil {
		return "", err
	}
	return r.css.InjectCSS(ctx, out, doc.CSS), nil
}
