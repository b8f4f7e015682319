package repo2pdf

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alnah/go-repo2pdf/internal/fetch"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger passed down to every component.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRunner sets the process runner used for git, pandoc and inkscape.
func WithRunner(r process.Runner) Option {
	return func(c *Converter) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithFetcher replaces the fetcher derived from the repository settings.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Converter) {
		c.fetcher = f
	}
}

// WithEngine replaces the engine derived from pdf_settings.engine.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithAssetPath adds a directory searched for styles and template sets
// before the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.assetPath = dir
	}
}

// WithHTML also writes the intermediate HTML next to the PDF.
func WithHTML(enabled bool) Option {
	return func(c *Converter) {
		c.writeHTML = enabled
	}
}

// WithKeepTemp keeps header.tex and pandoc_defaults.yaml after a successful run.
func WithKeepTemp(keep bool) Option {
	return func(c *Converter) {
		c.keepTemp = keep
	}
}

// WithHTTPClient sets the client for image and emoji downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.client = client
	}
}

// WithClock sets the time source for the output file name and auto dates.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}
