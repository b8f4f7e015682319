package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/yamlutil"
)

// Section types a layout may list.
const (
	SectionTree    = "tree"
	SectionStats   = "stats"
	SectionContent = "content"
)

// ErrInvalidLayout is returned for a layout that does not parse or names an
// unknown section type.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout orders the front matter of the document.
type Layout struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Sections    []Section `yaml:"sections"`
}

// Section is one front matter entry. Content applies to SectionContent only
// and may reference {{repo_name}} and {{date}}.
type Section struct {
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
}

// DefaultLayout lists the tree then the statistics.
func DefaultLayout() *Layout {
	return &Layout{
		Name:     "default",
		Sections: []Section{{Type: SectionTree}, {Type: SectionStats}},
	}
}

// ParseLayout decodes a layout.yaml document strictly.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yamlutil.UnmarshalStrict(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	for i, s := range l.Sections {
		switch s.Type {
		case SectionTree, SectionStats:
		case SectionContent:
			if strings.TrimSpace(s.Content) == "" {
				return nil, fmt.Errorf("%w: section %d: content is empty", ErrInvalidLayout, i)
			}
		default:
			return nil, fmt.Errorf("%w: section %d: unknown type %q", ErrInvalidLayout, i, s.Type)
		}
	}
	return &l, nil
}

// FrontMatter supplies the section bodies. A nil Tree or Stats function
// omits that section.
type FrontMatter struct {
	Tree     func() string
	Stats    func() string
	RepoName string
	Date     string
}

// Render returns the section bodies in layout order.
func (l *Layout) Render(fm FrontMatter) []string {
	vars := strings.NewReplacer("{{repo_name}}", fm.RepoName, "{{date}}", fm.Date)

	var out []string
	for _, s := range l.Sections {
		var body string
		switch s.Type {
		case SectionTree:
			if fm.Tree != nil {
				body = fm.Tree()
			}
		case SectionStats:
			if fm.Stats != nil {
				body = fm.Stats()
			}
		case SectionContent:
			body = vars.Replace(s.Content)
		}
		if strings.TrimSpace(body) != "" {
			out = append(out, body)
		}
	}
	return out
}
