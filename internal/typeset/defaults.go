package typeset

import (
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/yamlutil"
)

// InputFormat is the Pandoc reader with its extensions: fenced code
// attributes on, YAML metadata, dollar math and raw TeX off so repository
// text is never interpreted.
const InputFormat = "markdown+fenced_code_attributes+fenced_code_blocks+backtick_code_blocks-yaml_metadata_block-tex_math_dollars-raw_tex"

// PDFEngine is the LaTeX engine pandoc drives.
const PDFEngine = "xelatex"

// Defaults mirrors the subset of a Pandoc defaults file repo2pdf writes.
type Defaults struct {
	PDFEngine       string    `yaml:"pdf-engine"`
	From            string    `yaml:"from"`
	HighlightStyle  string    `yaml:"highlight-style"`
	IncludeInHeader []string  `yaml:"include-in-header"`
	Variables       Variables `yaml:"variables"`
}

// Variables are the template variables of the Pandoc LaTeX template.
type Variables struct {
	DocumentClass   string   `yaml:"documentclass"`
	Geometry        string   `yaml:"geometry"`
	Fontsize        string   `yaml:"fontsize,omitempty"`
	CJKMainFont     string   `yaml:"CJKmainfont"`
	CJKSansFont     string   `yaml:"CJKsansfont"`
	CJKMonoFont     string   `yaml:"CJKmonofont"`
	MonoFont        string   `yaml:"monofont"`
	MonoFontOptions []string `yaml:"monofontoptions"`
	ColorLinks      bool     `yaml:"colorlinks"`
	LinkColor       string   `yaml:"linkcolor"`
	URLColor        string   `yaml:"urlcolor"`
}

// NewDefaults builds the defaults for settings, fonts and the header path.
func NewDefaults(s config.PDFSettings, fonts Fonts, headerPath string) Defaults {
	return Defaults{
		PDFEngine:       PDFEngine,
		From:            InputFormat,
		HighlightStyle:  s.HighlightStyle,
		IncludeInHeader: []string{headerPath},
		Variables: Variables{
			DocumentClass:   "article",
			Geometry:        s.Margin,
			Fontsize:        s.Fontsize,
			CJKMainFont:     fonts.Main,
			CJKSansFont:     fonts.Sans,
			CJKMonoFont:     fonts.Main,
			MonoFont:        fonts.Mono,
			MonoFontOptions: []string{"Scale=0.85"},
			ColorLinks:      true,
			LinkColor:       "blue",
			URLColor:        "blue",
		},
	}
}

// Marshal renders d as YAML.
func (d Defaults) Marshal() ([]byte, error) {
	return yamlutil.Marshal(d)
}
