package typeset

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/alnah/go-repo2pdf/internal/config"
)

// ErrTemplate is returned when the preamble template does not parse or render.
var ErrTemplate = errors.New("rendering LaTeX header")

// HeaderData is the value the header.tex template is executed with.
// Text fields are already LaTeX-escaped.
type HeaderData struct {
	Title            string
	Author           string
	Creator          string
	Producer         string
	Linespread       string
	Parskip          string
	MainFont         string
	SansFont         string
	MonoFont         string
	CodeFontsize     string
	CodeBlockBg      string
	CodeBlockBorder  string
	CodeBlockPadding string
	EmojiFonts       []string
}

// NewHeaderData collects the template inputs from settings, fonts and the
// document title.
func NewHeaderData(s config.PDFSettings, fonts Fonts, title string) HeaderData {
	return HeaderData{
		Title:            EscapeLaTeX(title),
		Author:           EscapeLaTeX(s.Metadata["author"]),
		Creator:          EscapeLaTeX(s.Metadata["creator"]),
		Producer:         EscapeLaTeX(s.Metadata["producer"]),
		Linespread:       s.Linespread,
		Parskip:          s.Parskip,
		MainFont:         fonts.Main,
		SansFont:         fonts.Sans,
		MonoFont:         fonts.Mono,
		CodeFontsize:     s.CodeFontsize,
		CodeBlockBg:      s.CodeBlockBg,
		CodeBlockBorder:  s.CodeBlockBorder,
		CodeBlockPadding: s.CodeBlockPadding,
		EmojiFonts:       fonts.Emoji,
	}
}

// Header renders a header.tex template. Actions use << >> delimiters so
// LaTeX braces need no escaping; unknown fields are an error.
func Header(tmpl string, data HeaderData) (string, error) {
	t, err := template.New("header.tex").Delims("<<", ">>").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return b.String(), nil
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats specially in text.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
