package imageconv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// Download limits.
const (
	DownloadTimeout  = 10 * time.Second
	maxDownloadBytes = 20 << 20
	userAgent        = "repo2pdf (+https://github.com/alnah/go-repo2pdf)"
)

// genericTypes are Content-Type values that say nothing about the payload.
var genericTypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"binary/octet-stream":      true,
	"text/plain":               true,
}

// Options configures a Converter.
type Options struct {
	Rasterizer Rasterizer
	Client     *http.Client
	Timeout    time.Duration // per download; zero means DownloadTimeout
	Logger     *slog.Logger
}

// Converter resolves image references into files of its Cache.
type Converter struct {
	cache   *Cache
	raster  Rasterizer
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewConverter creates a Converter storing into cache. A nil Rasterizer
// defaults to OKSVG alone.
func NewConverter(cache *Cache, opts Options) *Converter {
	c := &Converter{
		cache:   cache,
		raster:  opts.Rasterizer,
		client:  opts.Client,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if c.raster == nil {
		c.raster = NewOKSVG()
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = DownloadTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Cache returns the underlying cache.
func (c *Converter) Cache() *Cache { return c.cache }

// Rasterizer returns the configured rasterizer, for sharing with the emoji handler.
func (c *Converter) Rasterizer() Rasterizer { return c.raster }

// ConvertSVG prepares content and rasterizes it into out. It never fails
// loudly: false means no file was written.
func (c *Converter) ConvertSVG(ctx context.Context, content []byte, out string) bool {
	prep, err := PrepareSVG(string(content))
	if err != nil {
		c.logger.Debug("svg skipped", "path", out, "error", err)
		return false
	}
	if err := c.raster.Rasterize(ctx, []byte(prep.Markup), prep.PixelWidth, prep.PixelHeight, out); err != nil {
		_ = os.Remove(out)
		c.logger.Warn("svg conversion failed", "path", out, "error", err)
		return false
	}
	return fileutil.FileExists(out)
}

// ConvertContent rasterizes inline SVG markup into <content-hash>.png and
// returns the document reference. An existing file short-circuits.
func (c *Converter) ConvertContent(ctx context.Context, content []byte) (string, bool) {
	name := fileutil.ContentHash(content) + ".png"
	if c.cache.Has(name) {
		return Ref(name), true
	}
	if !c.ConvertSVG(ctx, content, c.cache.Path(name)) {
		return "", false
	}
	return Ref(name), true
}

// ResolveLocal copies or converts the image at p into the cache and returns
// its document reference. Vector files become <content-hash>.png; raster files
// keep their base name (last write wins).
func (c *Converter) ResolveLocal(ctx context.Context, p string) (string, bool) {
	if ref, ok := c.cache.local[p]; ok {
		return ref, true
	}

	data, err := os.ReadFile(p) // #nosec G304 -- p is inside the repository
	if err != nil {
		c.logger.Debug("image not readable", "path", p, "error", err)
		return "", false
	}

	var ref string
	var ok bool
	if strings.EqualFold(filepath.Ext(p), ".svg") {
		ref, ok = c.ConvertContent(ctx, data)
	} else {
		ref, ok = c.storeRaster(filepath.Base(p), data, func(dst string) error {
			return fileutil.CopyFile(p, dst)
		})
	}
	if ok {
		c.cache.local[p] = ref
	}
	return ref, ok
}

// storeRaster writes a local raster image under name, re-encoding formats
// the engines cannot embed.
func (c *Converter) storeRaster(name string, data []byte, copyFn func(dst string) error) (string, bool) {
	mime := sniff(data)
	if needsReencode(mime) {
		pngData, err := reencodePNG(data, mime)
		if err != nil {
			c.logger.Debug("image re-encode failed", "path", name, "error", err)
			return "", false
		}
		name += ".png"
		if err := fileutil.WriteFileAtomic(c.cache.Path(name), pngData); err != nil {
			c.logger.Warn("image cache write failed", "path", name, "error", err)
			return "", false
		}
		return Ref(name), true
	}
	if err := copyFn(c.cache.Path(name)); err != nil {
		c.logger.Warn("image copy failed", "path", name, "error", err)
		return "", false
	}
	return Ref(name), true
}

// Download fetches rawURL into <url-hash>.<ext> and returns its document
// reference. Results, failures excluded, are memoised per URL.
func (c *Converter) Download(ctx context.Context, rawURL string) (string, bool) {
	if ref, ok := c.cache.remote[rawURL]; ok {
		return ref, true
	}

	key := fileutil.StringHash(rawURL)
	if name, ok := c.cache.find(key); ok {
		c.cache.remote[rawURL] = Ref(name)
		return Ref(name), true
	}

	data, contentType, err := c.fetch(ctx, rawURL)
	if err != nil {
		c.logger.Debug("image download failed", "url", rawURL, "error", err)
		return "", false
	}

	name, err := c.storeRemote(ctx, key, rawURL, data, contentType)
	if err != nil {
		c.logger.Debug("downloaded image rejected", "url", rawURL, "error", err)
		return "", false
	}
	c.cache.remote[rawURL] = Ref(name)
	return Ref(name), true
}

func (c *Converter) storeRemote(ctx context.Context, key, rawURL string, data []byte, contentType string) (string, error) {
	mime := contentType
	if genericTypes[mime] {
		mime = sniff(data)
	}

	if strings.Contains(mime, "svg") || strings.HasSuffix(strings.ToLower(urlPath(rawURL)), ".svg") {
		name := key + ".png"
		if !c.ConvertSVG(ctx, data, c.cache.Path(name)) {
			return "", ErrRasterize
		}
		return name, nil
	}

	if sniffed := sniff(data); !strings.HasPrefix(sniffed, "image/") {
		return "", fmt.Errorf("payload is %s, not an image", sniffed)
	}

	if needsReencode(mime) {
		pngData, err := reencodePNG(data, mime)
		if err != nil {
			return "", err
		}
		name := key + ".png"
		return name, fileutil.WriteFileAtomic(c.cache.Path(name), pngData)
	}

	name := key + extensionFor(mime, rawURL)
	return name, fileutil.WriteFileAtomic(c.cache.Path(name), data)
}

func (c *Converter) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req) // #nosec G107 -- URLs come from the repository's documents
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", ErrDownload, err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrDownload, maxDownloadBytes)
	}
	if len(data) == 0 {
		return nil, "", errors.Join(ErrDownload, errors.New("empty body"))
	}
	return data, baseMIME(resp.Header.Get("Content-Type")), nil
}

// extensionFor picks a file extension from the content type, then the URL,
// then defaults to .png.
func extensionFor(mime, rawURL string) string {
	if ext, ok := extensions[mime]; ok {
		return ext
	}
	if ext := path.Ext(urlPath(rawURL)); ext != "" {
		return strings.ToLower(ext)
	}
	return ".png"
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// baseMIME drops parameters and lower-cases a media type.
func baseMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
