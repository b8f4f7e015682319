package repo2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// HTMLFile is the page the chrome engine loads from the temp directory.
const HTMLFile = "temp.html"

// ChromeTimeout bounds loading and printing one document.
const ChromeTimeout = 5 * time.Minute

// Paper sizes in inches. kindle templates print on a 7-inch reader page.
const (
	letterWidth  = 8.5
	letterHeight = 11
	readerWidth  = 3.6
	readerHeight = 4.8

	defaultMarginInches = 0.5
)

const footerTemplate = `<div style="font-size: 8px; font-family: sans-serif; color: #888; width: 100%; text-align: center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`

var marginPattern = regexp.MustCompile(`(?i)([0-9]*\.?[0-9]+)\s*(in|cm|mm|pt)`)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, page pageSettings) ([]byte, error)
	Close() error
}

// pageSettings is the printed page geometry in inches.
type pageSettings struct {
	Width  float64
	Height float64
	Margin float64
}

// pageFor derives the page from the template name and the geometry margin
// ("margin=0.4in").
func pageFor(s config.PDFSettings) pageSettings {
	p := pageSettings{Width: letterWidth, Height: letterHeight, Margin: parseMargin(s.Margin)}
	if s.Template == "kindle" {
		p.Width, p.Height = readerWidth, readerHeight
	}
	return p
}

// parseMargin reads the first length in a geometry string as inches.
func parseMargin(geometry string) float64 {
	m := marginPattern.FindStringSubmatch(geometry)
	if m == nil {
		return defaultMarginInches
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultMarginInches
	}
	switch strings.ToLower(m[2]) {
	case "cm":
		v /= 2.54
	case "mm":
		v /= 25.4
	case "pt":
		v /= 72.27
	}
	return v
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// Browser connects lazily and returns the shared browser. The SVG fallback
// rasterizer borrows it.
func (r *rodRenderer) Browser() (*rod.Browser, error) {
	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners have no user namespace for the sandbox.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = b
	return b, nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, page pageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, err := r.Browser()
	if err != nil {
		return nil, err
	}

	p, err := browser.Page(proto.TargetCreateTarget{URL: fileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = p.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	p = p.Context(ctx).Timeout(timeout)

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildPDFOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// buildPDFOptions prints backgrounds and a page-number footer.
func buildPDFOptions(page pageSettings) *proto.PagePrintToPDF {
	bottom := page.Margin
	if bottom < 0.4 {
		bottom = 0.4 // room for the footer
	}
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(page.Width),
		PaperHeight:         floatPtr(page.Height),
		MarginTop:           floatPtr(page.Margin),
		MarginBottom:        floatPtr(bottom),
		MarginLeft:          floatPtr(page.Margin),
		MarginRight:         floatPtr(page.Margin),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      footerTemplate,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func fileURL(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// chromeEngine prints the rendered HTML with headless Chrome.
type chromeEngine struct {
	renderer pdfRenderer
	logger   *slog.Logger
}

func newChromeEngine(renderer pdfRenderer, logger *slog.Logger) *chromeEngine {
	return &chromeEngine{renderer: renderer, logger: logger}
}

// Render writes doc.HTML to the temp directory, loads it and writes the PDF.
func (e *chromeEngine) Render(ctx context.Context, doc *Document) error {
	if doc.HTML == "" {
		return fmt.Errorf("%w: no HTML to print", ErrPDFGeneration)
	}
	htmlPath := filepath.Join(doc.TempDir, HTMLFile)
	if err := fileutil.WriteFileAtomic(htmlPath, []byte(doc.HTML)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrPDFGeneration, HTMLFile, err)
	}

	page := pageFor(doc.Settings)
	e.logger.Info("printing with chrome", "path", htmlPath, "width_in", page.Width, "height_in", page.Height)
	data, err := e.renderer.RenderFromFile(ctx, htmlPath, page)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(doc.Output, data); err != nil {
		return fmt.Errorf("%w: writing PDF: %w", ErrPDFGeneration, err)
	}
	return nil
}

// Close releases the browser.
func (e *chromeEngine) Close() error {
	return e.renderer.Close()
}

var (
	_ Engine      = (*chromeEngine)(nil)
	_ pdfRenderer = (*rodRenderer)(nil)
)
