package assets

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetName      = errors.New("invalid asset name")
	ErrInvalidBasePath       = errors.New("invalid base path")
	ErrAssetRead             = errors.New("failed to read asset")
	ErrPathTraversal         = errors.New("path traversal detected")
)

// File names inside a template set directory.
const (
	HeaderFile = "header.tex"
	LayoutFile = "layout.yaml"
)

// Built-in defaults. A template set and its print style share a name when
// both exist; kindle has no style of its own.
const (
	DefaultTemplateSetName = "default"
	DefaultStyleName       = "default"
)

// TemplateSet holds the files that shape one rendering flavor.
type TemplateSet struct {
	Name   string // set name as requested
	Header string // LaTeX preamble template (header.tex)
	Layout string // front-matter layout (layout.yaml)
}

// AssetLoader loads print styles and template sets by name.
type AssetLoader interface {
	// LoadStyle returns the CSS of styles/<name>.css.
	LoadStyle(name string) (string, error)
	// LoadTemplateSet returns templates/<name>/{header.tex,layout.yaml}.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

var assetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName rejects anything but letters, digits, '-' and '_', so a
// name can never carry a separator, an extension or "..".
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// readTemplateSet assembles a set from read, which returns an error matching
// fs.ErrNotExist for absent files. Both files missing means the set does not
// exist; one missing means it is incomplete.
func readTemplateSet(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	header, headerErr := read(HeaderFile)
	layout, layoutErr := read(LayoutFile)

	headerMissing, layoutMissing := isNotExist(headerErr), isNotExist(layoutErr)
	switch {
	case headerMissing && layoutMissing:
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	case headerErr != nil && !headerMissing:
		return nil, fmt.Errorf("%w: %s of %q: %w", ErrAssetRead, HeaderFile, name, headerErr)
	case layoutErr != nil && !layoutMissing:
		return nil, fmt.Errorf("%w: %s of %q: %w", ErrAssetRead, LayoutFile, name, layoutErr)
	case headerMissing:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, HeaderFile)
	case layoutMissing:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, LayoutFile)
	}
	return &TemplateSet{Name: name, Header: string(header), Layout: string(layout)}, nil
}

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in print style.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplateSet loads a built-in template set.
func LoadTemplateSet(name string) (*TemplateSet, error) {
	return defaultLoader.LoadTemplateSet(name)
}

// TemplateSetNames lists the built-in template sets, sorted.
func TemplateSetNames() []string {
	return defaultLoader.TemplateSetNames()
}
