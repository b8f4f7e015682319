package assets

import "embed"

//go:embed styles templates
var builtin embed.FS

// EmbeddedLoader serves the styles and template sets compiled into the binary.
type EmbeddedLoader struct {
	t tree
}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{t: tree{fsys: builtin}}
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.t.style(name)
}

// LoadTemplateSet implements AssetLoader.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	return e.t.templateSet(name)
}

// TemplateSetNames lists the built-in sets, sorted.
func (e *EmbeddedLoader) TemplateSetNames() []string {
	return e.t.setNames()
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
