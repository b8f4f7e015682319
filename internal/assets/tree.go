package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
)

// tree reads assets from an fs.FS laid out as styles/<name>.css and
// templates/<name>/. Both loaders are a tree over a different FS.
type tree struct {
	fsys fs.FS
	// vet, when set, rejects a slash path before it is opened.
	vet func(p string) error
}

func (t tree) read(p string) ([]byte, error) {
	if t.vet != nil {
		if err := t.vet(p); err != nil {
			return nil, err
		}
	}
	return fs.ReadFile(t.fsys, p)
}

func (t tree) style(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := t.read(path.Join("styles", name+".css"))
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, ErrPathTraversal):
		return "", err
	case isNotExist(err):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
}

func (t tree) templateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	dir := path.Join("templates", name)
	if t.vet != nil {
		if err := t.vet(dir); err != nil {
			return nil, err
		}
	}
	return readTemplateSet(name, func(file string) ([]byte, error) {
		return t.read(path.Join(dir, file))
	})
}

// setNames lists the directories under templates/ that are valid set names.
func (t tree) setNames() []string {
	entries, err := fs.ReadDir(t.fsys, "templates")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateAssetName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
