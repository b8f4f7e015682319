package repo2pdf

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-repo2pdf/internal/config"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	Result     []byte
	Err        error
	CalledWith string
	CalledPage pageSettings
	Closed     bool
}

func (m *mockRenderer) RenderFromFile(_ context.Context, filePath string, page pageSettings) ([]byte, error) {
	m.CalledWith = filePath
	m.CalledPage = page
	return m.Result, m.Err
}

func (m *mockRenderer) Close() error {
	m.Closed = true
	return nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// ---------------------------------------------------------------------------
// TestParseMargin - geometry strings
// ---------------------------------------------------------------------------

func TestParseMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		geometry string
		want     float64
	}{
		{"margin=1in", 1},
		{"margin=0.4in", 0.4},
		{"margin=2.54cm", 1},
		{"margin=25.4mm", 1},
		{"margin=72.27pt", 1},
		{"margin=1IN", 1},
		{"", defaultMarginInches},
		{"left=wide", defaultMarginInches},
	}
	for _, tt := range tests {
		t.Run(tt.geometry, func(t *testing.T) {
			t.Parallel()
			if got := parseMargin(tt.geometry); !almostEqual(got, tt.want) {
				t.Errorf("parseMargin(%q) = %v, want %v", tt.geometry, got, tt.want)
			}
		})
	}
}

func TestPageFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		wantW    float64
		wantH    float64
	}{
		{"default is letter", "default", letterWidth, letterHeight},
		{"empty is letter", "", letterWidth, letterHeight},
		{"kindle is a reader page", "kindle", readerWidth, readerHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := pageFor(config.PDFSettings{Template: tt.template, Margin: "margin=0.5in"})
			if p.Width != tt.wantW || p.Height != tt.wantH || !almostEqual(p.Margin, 0.5) {
				t.Errorf("pageFor() = %+v", p)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - print parameters
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	t.Run("uses the page geometry", func(t *testing.T) {
		t.Parallel()
		opts := buildPDFOptions(pageSettings{Width: 8.5, Height: 11, Margin: 1})
		if *opts.PaperWidth != 8.5 || *opts.PaperHeight != 11 {
			t.Errorf("paper = %vx%v", *opts.PaperWidth, *opts.PaperHeight)
		}
		if *opts.MarginTop != 1 || *opts.MarginBottom != 1 || *opts.MarginLeft != 1 {
			t.Error("margins not applied")
		}
		if !opts.PrintBackground || !opts.DisplayHeaderFooter {
			t.Error("expected backgrounds and footer")
		}
	})

	t.Run("small margins keep room for the footer", func(t *testing.T) {
		t.Parallel()
		opts := buildPDFOptions(pageSettings{Width: 3.6, Height: 4.8, Margin: 0.1})
		if *opts.MarginBottom != 0.4 {
			t.Errorf("bottom margin = %v, want 0.4", *opts.MarginBottom)
		}
		if *opts.MarginTop != 0.1 {
			t.Errorf("top margin = %v, want 0.1", *opts.MarginTop)
		}
	})
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if got := fileURL("/tmp/x/temp.html"); got != "file:///tmp/x/temp.html" {
		t.Errorf("fileURL() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestChromeEngine_Render - file handling around the renderer
// ---------------------------------------------------------------------------

func TestChromeEngine_Render(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	out := filepath.Join(t.TempDir(), "demo.pdf")
	mock := &mockRenderer{Result: []byte("%PDF-1.7")}
	e := newChromeEngine(mock, slog.New(slog.DiscardHandler))

	doc := &Document{
		HTML:     "<html><body>hi</body></html>",
		Output:   out,
		TempDir:  tmp,
		Settings: config.PDFSettings{Template: "kindle", Margin: "margin=0.2in"},
	}
	if err := e.Render(context.Background(), doc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if mock.CalledWith != filepath.Join(tmp, HTMLFile) {
		t.Errorf("rendered %q", mock.CalledWith)
	}
	html, err := os.ReadFile(mock.CalledWith)
	if err != nil || string(html) != doc.HTML {
		t.Errorf("HTML file = %q, %v", html, err)
	}
	if mock.CalledPage.Width != readerWidth {
		t.Errorf("page width = %v, want %v", mock.CalledPage.Width, readerWidth)
	}
	if pdf, _ := os.ReadFile(out); string(pdf) != "%PDF-1.7" {
		t.Errorf("PDF = %q", pdf)
	}

	if err := e.Close(); err != nil || !mock.Closed {
		t.Error("Close() did not close the renderer")
	}
}

func TestChromeEngine_Render_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty HTML", func(t *testing.T) {
		t.Parallel()
		e := newChromeEngine(&mockRenderer{}, slog.New(slog.DiscardHandler))
		err := e.Render(context.Background(), &Document{TempDir: t.TempDir()})
		if !errors.Is(err, ErrPDFGeneration) {
			t.Errorf("error = %v, want ErrPDFGeneration", err)
		}
	})

	t.Run("renderer failure", func(t *testing.T) {
		t.Parallel()
		mock := &mockRenderer{Err: ErrBrowserConnect}
		e := newChromeEngine(mock, slog.New(slog.DiscardHandler))
		out := filepath.Join(t.TempDir(), "demo.pdf")
		err := e.Render(context.Background(), &Document{HTML: "<p>x</p>", TempDir: t.TempDir(), Output: out})
		if !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("error = %v, want ErrBrowserConnect", err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Error("PDF written after a failure")
		}
	})
}

func TestRodRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRodRenderer(ChromeTimeout)
	if _, err := r.RenderFromFile(ctx, "/nonexistent.html", pageSettings{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on an unused renderer = %v", err)
	}
}
