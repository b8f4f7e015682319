package imageconv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// RelDir is the cache directory as referenced from the assembled document.
const RelDir = "images"

// Cache is the content-addressed image store of one run: an on-disk directory
// plus two in-memory maps (local path to file name, URL to file name).
// Entries are never evicted. Not safe for concurrent use.
type Cache struct {
	dir    string
	local  map[string]string
	remote map[string]string
}

// NewCache creates dir if needed and returns an empty cache over it.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("creating image cache: %w", err)
	}
	return &Cache{
		dir:    dir,
		local:  make(map[string]string),
		remote: make(map[string]string),
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the absolute location of name.
func (c *Cache) Path(name string) string { return filepath.Join(c.dir, name) }

// Has reports whether name is already on disk.
func (c *Cache) Has(name string) bool { return fileutil.FileExists(c.Path(name)) }

// Ref is the document-relative reference to name, e.g. "images/ab12.png".
func Ref(name string) string { return RelDir + "/" + name }

// find returns the first file on disk named key.<anything>.
func (c *Cache) find(key string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(c.dir, key+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return filepath.Base(matches[0]), true
}

// Len returns the number of memoised local and remote entries.
func (c *Cache) Len() int { return len(c.local) + len(c.remote) }
