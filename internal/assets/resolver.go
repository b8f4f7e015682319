package assets

import (
	"errors"
	"slices"
)

// AssetResolver looks in the --asset-path directory first and falls back to
// the embedded assets when a name is not found there. Validation and read
// errors from the custom directory are returned as-is.
type AssetResolver struct {
	custom   *FilesystemLoader // nil without --asset-path
	embedded *EmbeddedLoader
}

// NewAssetResolver creates a resolver. An empty customBasePath uses only
// the embedded assets.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = custom
	}
	return r, nil
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplateSet implements AssetLoader.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return withFallback(r, func(l AssetLoader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

// TemplateSetNames lists custom and built-in set names, sorted, without
// duplicates.
func (r *AssetResolver) TemplateSetNames() []string {
	names := r.embedded.TemplateSetNames()
	if r.custom != nil {
		names = append(names, r.custom.TemplateSetNames()...)
		slices.Sort(names)
		names = slices.Compact(names)
	}
	return names
}

func withFallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom != nil {
		v, err := load(r.custom)
		if err == nil || !notFound(err) {
			return v, err
		}
	}
	return load(r.embedded)
}

func notFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateSetNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
