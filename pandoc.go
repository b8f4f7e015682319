package repo2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/assets"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/process"
	"github.com/alnah/go-repo2pdf/internal/typeset"
)

// Files written to the temp directory.
const (
	MarkdownFile = "temp.md"
	HeaderFile   = "header.tex"
	DefaultsFile = "pandoc_defaults.yaml"
)

// maxStderrInError bounds the typesetter output quoted in an error.
const maxStderrInError = 2000

// Engine renders the assembled document into a PDF.
type Engine interface {
	Render(ctx context.Context, doc *Document) error
	Close() error
}

// Document is everything an Engine needs for one run.
type Document struct {
	Markdown  string // absolute path of temp.md
	HTML      string // rendered HTML; set when the engine prints HTML
	Output    string // PDF path
	Title     string
	Subtitle  string
	Date      string // "" lets the engine print today's date
	TempDir   string
	RepoDir   string
	Settings  config.PDFSettings
	Templates *assets.TemplateSet
}

// pandocEngine drives pandoc with xelatex.
type pandocEngine struct {
	runner process.Runner
	goos   string
	logger *slog.Logger
}

func newPandocEngine(runner process.Runner, logger *slog.Logger) *pandocEngine {
	return &pandocEngine{runner: runner, goos: runtime.GOOS, logger: logger}
}

// Render writes header.tex and pandoc_defaults.yaml into the temp directory,
// then runs pandoc there and checks that the PDF appeared.
func (e *pandocEngine) Render(ctx context.Context, doc *Document) error {
	fonts := typeset.ResolveFonts(doc.Settings, e.goos)

	header, err := typeset.Header(doc.Templates.Header, typeset.NewHeaderData(doc.Settings, fonts, doc.Title))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTypeset, err)
	}
	headerPath := filepath.Join(doc.TempDir, HeaderFile)
	if err := fileutil.WriteFileAtomic(headerPath, []byte(header)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrTypeset, HeaderFile, err)
	}

	defaults, err := typeset.NewDefaults(doc.Settings, fonts, headerPath).Marshal()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTypeset, err)
	}
	defaultsPath := filepath.Join(doc.TempDir, DefaultsFile)
	if err := fileutil.WriteFileAtomic(defaultsPath, defaults); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrTypeset, DefaultsFile, err)
	}

	cmd := typeset.Command(typeset.Job{
		Markdown:     doc.Markdown,
		Output:       doc.Output,
		DefaultsFile: defaultsPath,
		Title:        doc.Title,
		Subtitle:     doc.Subtitle,
		Date:         doc.Date,
		TempDir:      doc.TempDir,
		RepoDir:      doc.RepoDir,
	})
	e.logger.Info("running pandoc", "command", cmd.String())

	res, err := e.runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		stderr := strings.TrimSpace(res.Stderr)
		if stderr != "" {
			e.logger.Debug("pandoc stderr", "stderr", stderr)
		}
		return fmt.Errorf("%w: %w%s", ErrTypeset, err, quoteStderr(stderr))
	}
	if !fileutil.FileExists(doc.Output) {
		return fmt.Errorf("%w: %w: %s", ErrTypeset, ErrOutputMissing, doc.Output)
	}
	return nil
}

// Close is a no-op: pandoc runs one process per document.
func (e *pandocEngine) Close() error { return nil }

// quoteStderr keeps the tail of the typesetter output, where LaTeX prints
// the error that stopped it.
func quoteStderr(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > maxStderrInError {
		s = "..." + s[len(s)-maxStderrInError:]
	}
	return "\n" + s
}

var _ Engine = (*pandocEngine)(nil)
