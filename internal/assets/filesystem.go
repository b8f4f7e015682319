package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// FilesystemLoader loads assets from a user directory (--asset-path) laid
// out like the built-in tree. Paths a symlink moves outside the directory
// fail with ErrPathTraversal.
type FilesystemLoader struct {
	basePath string
	t        tree
}

// NewFilesystemLoader returns ErrInvalidBasePath unless basePath is a
// readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if !fileutil.DirExists(abs) {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	f := &FilesystemLoader{basePath: abs}
	f.t = tree{fsys: os.DirFS(abs), vet: f.contained}
	return f, nil
}

// LoadStyle implements AssetLoader.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.t.style(name)
}

// LoadTemplateSet implements AssetLoader.
func (f *FilesystemLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	return f.t.templateSet(name)
}

// TemplateSetNames lists the set directories under templates/, sorted.
func (f *FilesystemLoader) TemplateSetNames() []string {
	return f.t.setNames()
}

func (f *FilesystemLoader) contained(p string) error {
	if !fileutil.IsWithin(f.basePath, filepath.Join(f.basePath, filepath.FromSlash(p))) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, p, f.basePath)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
