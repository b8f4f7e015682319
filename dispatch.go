package repo2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/alnah/go-repo2pdf/internal/assemble"
	"github.com/alnah/go-repo2pdf/internal/collect"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/imageconv"
	"github.com/alnah/go-repo2pdf/internal/pathmatch"
	"github.com/alnah/go-repo2pdf/internal/transform"
)

// dispatcher turns one collected file into its document block.
type dispatcher struct {
	root     string
	settings config.PDFSettings
	markdown *transform.Markdown
	code     *transform.Code
	html     *assemble.HTMLConverter
	images   *imageconv.Converter
	logger   *slog.Logger
}

// dispatch routes f by kind, first match wins: images, Markdown, HTML,
// source code, then .cursorrules. Anything else yields "". Failures,
// panics included, are logged and yield "" so the run continues.
func (d *dispatcher) dispatch(ctx context.Context, f collect.File) (block string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("file skipped", "path", f.RelPath, "error", fmt.Errorf("%w: %v", ErrInternal, r))
			block = ""
		}
	}()
	return d.route(ctx, f)
}

func (d *dispatcher) route(ctx context.Context, f collect.File) string {
	if collect.IsImage(f.RelPath) {
		if _, ok := d.images.ResolveLocal(ctx, f.Path); !ok {
			d.logger.Warn("image not cached", "path", f.RelPath)
		}
		return ""
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		d.logger.Warn("file skipped", "path", f.RelPath, "error", err)
		return ""
	}
	if !collect.IsText(data) {
		d.logger.Debug("binary file skipped", "path", f.RelPath)
		return ""
	}
	content := string(data)

	switch {
	case f.Ext == ".md" || f.Ext == ".mdx":
		return d.markdownBlock(ctx, f, content)
	case f.Ext == ".html":
		return d.htmlBlock(ctx, f, content)
	case transform.IsCode(f.RelPath):
		return d.code.Transform(ctx, content, f.RelPath)
	case path.Base(f.RelPath) == ".cursorrules":
		return transform.Verbatim(f.RelPath, content, "markdown")
	}
	return ""
}

// markdownBlock renders Markdown as prose, or verbatim when the path is
// listed in raw_markdown_paths and not in raw_markdown_exclude_paths.
func (d *dispatcher) markdownBlock(ctx context.Context, f collect.File, content string) string {
	if d.raw(f.RelPath) {
		return transform.Verbatim(f.RelPath, content, "markdown")
	}
	body := d.markdown.Transform(ctx, content, f.Path)
	return transform.Prose(f.RelPath, body, f.Ext == ".mdx")
}

func (d *dispatcher) raw(rel string) bool {
	return pathmatch.MatchAny(rel, d.settings.RawMarkdownPaths) &&
		!pathmatch.MatchAny(rel, d.settings.RawMarkdownExcludePaths)
}

// htmlBlock converts HTML to Markdown, then treats it like any Markdown file
// so its images follow the same rules.
func (d *dispatcher) htmlBlock(ctx context.Context, f collect.File, content string) string {
	md, err := d.html.Convert(content)
	if err != nil {
		d.logger.Warn("file skipped", "path", f.RelPath, "error", fmt.Errorf("converting HTML: %w", err))
		return ""
	}
	return transform.Prose(f.RelPath, d.markdown.Transform(ctx, md, f.Path), false)
}
