package emoji

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// Twemoji source.
const (
	URLTemplate     = "https://raw.githubusercontent.com/twitter/twemoji/{version}/assets/svg/{name}.svg"
	DownloadTimeout = 10 * time.Second
	SubDir          = "emoji"
	maxSVGBytes     = 1 << 20
)

// Versions are the Twemoji tags tried in order.
var Versions = []string{"v14.0.2", "v14.0.0", "master"}

// ErrUnavailable is returned by fetch when no version serves a candidate.
var ErrUnavailable = errors.New("emoji not available")

// Context selects the replacement syntax.
type Context int

const (
	// Text produces \emojiimg{file} as a pandoc raw LaTeX inline, for prose.
	Text Context = iota
	// Code produces §emojiimg«file» for the CodeBlock environment.
	Code
)

// SVGConverter rasterizes SVG markup into a PNG at out.
// imageconv.Converter satisfies it.
type SVGConverter interface {
	ConvertSVG(ctx context.Context, content []byte, out string) bool
}

// Options configures a Handler.
type Options struct {
	Converter   SVGConverter
	Download    bool // false: only files already on disk are used
	Client      *http.Client
	Timeout     time.Duration
	URLTemplate string // {version} and {name} are substituted
	MaxSide     int    // PNGs larger than this are downscaled; zero means DefaultMaxSide
	Logger      *slog.Logger
}

// Handler resolves emoji sequences to PNG files under <cache>/emoji.
// Results, including failures, are memoised for the lifetime of the Handler.
// Not safe for concurrent use.
type Handler struct {
	dir     string
	conv    SVGConverter
	enabled bool
	client  *http.Client
	timeout time.Duration
	urlTmpl string
	maxSide int
	logger  *slog.Logger
	memo    map[string]string // sequence -> file name; "" = unavailable
}

// NewHandler creates <imagesDir>/emoji and returns a Handler storing there.
func NewHandler(imagesDir string, opts Options) (*Handler, error) {
	dir := filepath.Join(imagesDir, SubDir)
	if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("creating emoji cache: %w", err)
	}
	h := &Handler{
		dir:     dir,
		conv:    opts.Converter,
		enabled: opts.Download && opts.Converter != nil,
		client:  opts.Client,
		timeout: opts.Timeout,
		urlTmpl: opts.URLTemplate,
		maxSide: opts.MaxSide,
		logger:  opts.Logger,
		memo:    make(map[string]string),
	}
	if h.client == nil {
		h.client = http.DefaultClient
	}
	if h.timeout <= 0 {
		h.timeout = DownloadTimeout
	}
	if h.urlTmpl == "" {
		h.urlTmpl = URLTemplate
	}
	if h.maxSide <= 0 {
		h.maxSide = DefaultMaxSide
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h, nil
}

// Dir returns the emoji cache directory.
func (h *Handler) Dir() string { return h.dir }

// Resolve returns the PNG file name for seq, e.g. "1f44d.png".
func (h *Handler) Resolve(ctx context.Context, seq string) (string, bool) {
	if name, ok := h.memo[seq]; ok {
		return name, name != ""
	}

	candidates := Candidates(seq)
	for _, c := range candidates {
		name := c + ".png"
		if fileutil.FileExists(filepath.Join(h.dir, name)) {
			h.memo[seq] = name
			return name, true
		}
	}

	if !h.enabled {
		h.memo[seq] = ""
		return "", false
	}

	name, err := h.download(ctx, candidates)
	if err != nil {
		h.logger.Debug("emoji unresolved", "sequence", seq, "error", err)
		if ctx.Err() == nil {
			h.memo[seq] = ""
		}
		return "", false
	}
	h.memo[seq] = name
	return name, true
}

// download tries every version and candidate, then rasterizes the winner.
func (h *Handler) download(ctx context.Context, candidates []string) (string, error) {
	for _, version := range Versions {
		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			svg, err := h.fetch(ctx, h.url(version, c))
			if err != nil {
				h.logger.Debug("emoji download failed", "url", h.url(version, c), "error", err)
				continue
			}
			name := c + ".png"
			out := filepath.Join(h.dir, name)
			if !h.conv.ConvertSVG(ctx, svg, out) {
				return "", fmt.Errorf("rasterizing %s", c)
			}
			if err := fitPNG(out, h.maxSide); err != nil {
				h.logger.Debug("emoji downscale failed", "path", out, "error", err)
			}
			return name, nil
		}
	}
	return "", ErrUnavailable
}

func (h *Handler) url(version, name string) string {
	return strings.NewReplacer("{version}", version, "{name}", name).Replace(h.urlTmpl)
}

func (h *Handler) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req) // #nosec G107 -- fixed Twemoji host
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSVGBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}
	return data, nil
}

// Replace substitutes every resolvable emoji in text with an image command
// for kind. Unresolved emoji stay literal.
func (h *Handler) Replace(ctx context.Context, text string, kind Context) string {
	matches := Detect(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		last = m.End
		name, ok := h.Resolve(ctx, m.Sequence)
		if !ok {
			b.WriteString(m.Text)
			continue
		}
		b.WriteString(Command(name, kind))
	}
	b.WriteString(text[last:])
	return b.String()
}

// Command renders the image command for a resolved file name.
func Command(name string, kind Context) string {
	if kind == Code {
		return "§emojiimg«" + name + "»"
	}
	return "`\\emojiimg{" + name + "}`{=latex}"
}

// Len returns the number of memoised sequences.
func (h *Handler) Len() int { return len(h.memo) }
