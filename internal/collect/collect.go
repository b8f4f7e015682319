package collect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/pathmatch"
)

// ErrNotDirectory is returned when the collection root is not a directory.
var ErrNotDirectory = errors.New("repository root is not a directory")

// AllowedHidden are hidden files collected without an include pattern.
var AllowedHidden = []string{".cursorrules", ".gitignore", ".dockerignore", ".env.example"}

// ImageExtensions are exempt from the size ceiling.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".svgz", ".webp"}

// BinaryExtensions are never collected.
var BinaryExtensions = []string{".pyc", ".pyo", ".pyd", ".so", ".dylib", ".dll", ".class", ".o", ".obj", ".exe", ".bin"}

// File is one repository file selected for rendering.
type File struct {
	Path    string // absolute
	RelPath string // slash separated, relative to the root
	Ext     string // lower-cased, with the dot
	Size    int64
}

// Options configures a Collector.
type Options struct {
	Ignores       []string // pathmatch.Ignored patterns
	IncludeHidden []string // globs re-admitting hidden paths
	MaxFileSize   int64    // bytes; zero disables the ceiling
	Logger        *slog.Logger
}

// Collector selects files from a repository tree.
type Collector struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Collector.
func New(opts Options) *Collector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{opts: opts, logger: logger}
}

// IsImage reports whether name has an image extension.
func IsImage(name string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(filepath.Ext(name)))
}

// IsBinary reports whether name has a known binary extension.
func IsBinary(name string) bool {
	return slices.Contains(BinaryExtensions, strings.ToLower(filepath.Ext(name)))
}

// Excluded applies the path-only rules to rel (slash separated).
// Directories are checked without the binary-extension rule.
func (c *Collector) Excluded(rel string, isDir bool) bool {
	if c.hidden(rel, isDir) {
		return true
	}
	if pathmatch.Ignored(rel, c.opts.Ignores) {
		return true
	}
	return !isDir && IsBinary(rel)
}

// hidden reports whether rel has a dot-prefixed segment that neither the
// allow-list nor include_hidden_paths re-admits. Hidden directories stay
// walkable while include patterns exist, since one may match below them.
func (c *Collector) hidden(rel string, isDir bool) bool {
	segs := strings.Split(rel, "/")
	isHidden := false
	for _, s := range segs {
		if strings.HasPrefix(s, ".") && s != "." && s != ".." {
			isHidden = true
			break
		}
	}
	if !isHidden {
		return false
	}
	if isDir {
		return len(c.opts.IncludeHidden) == 0
	}
	if slices.Contains(AllowedHidden, segs[len(segs)-1]) {
		return false
	}
	return !pathmatch.MatchAny(rel, c.opts.IncludeHidden)
}

// Collect walks root and returns the selected files sorted by relative path.
// Unreadable entries are logged and skipped; only a cancelled context or an
// unusable root abort the walk.
func (c *Collector) Collect(ctx context.Context, root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("collecting %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	realRoot, err := filepath.Abs(root)
	if err == nil {
		realRoot, err = filepath.EvalSymlinks(realRoot)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	var files []File
	err = filepath.WalkDir(realRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == realRoot {
			return walkErr
		}
		rel, relErr := filepath.Rel(realRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			c.logger.Warn("cannot read path", "path", rel, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if c.Excluded(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if c.Excluded(rel, false) {
			c.logger.Debug("ignoring file", "path", rel)
			return nil
		}

		f, ok := c.inspect(realRoot, p, rel, d)
		if ok {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.RelPath, b.RelPath) })
	c.logger.Info("collected files", "count", len(files))
	return files, nil
}

// inspect applies the rules that need the file itself: regular-file check,
// containment of symlink targets and the size ceiling.
func (c *Collector) inspect(root, p, rel string, d fs.DirEntry) (File, bool) {
	if d.Type()&fs.ModeSymlink != 0 && !fileutil.IsWithin(root, p) {
		c.logger.Warn("unsafe path detected, skipping", "path", rel)
		return File{}, false
	}
	info, err := os.Stat(p)
	if err != nil {
		c.logger.Warn("cannot stat file", "path", rel, "error", err)
		return File{}, false
	}
	if !info.Mode().IsRegular() {
		return File{}, false
	}
	if c.opts.MaxFileSize > 0 && info.Size() > c.opts.MaxFileSize && !IsImage(rel) {
		c.logger.Debug("file exceeds size limit", "path", rel, "size", info.Size())
		return File{}, false
	}
	return File{
		Path:    p,
		RelPath: rel,
		Ext:     strings.ToLower(filepath.Ext(rel)),
		Size:    info.Size(),
	}, true
}
