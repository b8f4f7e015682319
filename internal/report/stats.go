package report

import (
	"bytes"
	"cmp"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alnah/go-repo2pdf/internal/collect"
	"github.com/alnah/go-repo2pdf/internal/transform"
)

// maxExtensions caps the extension table.
const maxExtensions = 20

// LanguageStats counts the files and lines of one language.
type LanguageStats struct {
	Language string
	Files    int
	Lines    int
}

// ExtensionStats counts the files of one extension.
type ExtensionStats struct {
	Extension string
	Files     int
}

// Stats summarizes the collected files.
type Stats struct {
	Files      int
	Lines      int // code files only
	Bytes      int64
	Languages  []LanguageStats  // lines descending
	Extensions []ExtensionStats // files descending
}

// Collect computes statistics over files. Lines are counted for files with a
// known code extension that decode as UTF-8; unreadable files count toward
// totals but not lines.
func Collect(files []collect.File, logger *slog.Logger) *Stats {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Stats{}
	langs := map[string]*LanguageStats{}
	exts := map[string]int{}

	for _, f := range files {
		s.Files++
		s.Bytes += f.Size
		if f.Ext == "" {
			continue
		}
		exts[f.Ext]++

		lang, ok := transform.ExtensionLanguage(f.RelPath)
		if !ok {
			continue
		}
		ls := langs[lang]
		if ls == nil {
			ls = &LanguageStats{Language: lang}
			langs[lang] = ls
		}
		ls.Files++

		n, err := countLines(f.Path)
		if err != nil {
			logger.Debug("cannot count lines", "path", f.RelPath, "error", err)
			continue
		}
		ls.Lines += n
		s.Lines += n
	}

	for _, ls := range langs {
		s.Languages = append(s.Languages, *ls)
	}
	slices.SortFunc(s.Languages, func(a, b LanguageStats) int {
		return cmp.Or(cmp.Compare(b.Lines, a.Lines), strings.Compare(a.Language, b.Language))
	})
	for ext, n := range exts {
		s.Extensions = append(s.Extensions, ExtensionStats{Extension: ext, Files: n})
	}
	slices.SortFunc(s.Extensions, func(a, b ExtensionStats) int {
		return cmp.Or(cmp.Compare(b.Files, a.Files), strings.Compare(a.Extension, b.Extension))
	})
	return s
}

// countLines counts newline-terminated lines plus a final unterminated one.
// Non UTF-8 content counts as zero lines.
func countLines(p string) (int, error) {
	data, err := os.ReadFile(p) // #nosec G304 -- p comes from the collector
	if err != nil {
		return 0, err
	}
	if !utf8.Valid(data) {
		return 0, nil
	}
	n := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}

// Markdown renders the "Code Statistics" section.
func (s *Stats) Markdown() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("# Code Statistics\n\n")
	p.Fprintf(&b, "- Total files: %d\n", s.Files)
	p.Fprintf(&b, "- Total lines of code: %d\n", s.Lines)
	p.Fprintf(&b, "- Total size: %.2f MB\n\n", float64(s.Bytes)/(1024*1024))

	if len(s.Languages) > 0 {
		b.WriteString("## By Language\n\n")
		b.WriteString("| Language | Files | Lines |\n")
		b.WriteString("|----------|-------|-------|\n")
		for _, l := range s.Languages {
			p.Fprintf(&b, "| %s | %d | %d |\n", l.Language, l.Files, l.Lines)
		}
		b.WriteString("\n")
	}

	if len(s.Extensions) > 0 {
		b.WriteString("## By File Type\n\n")
		b.WriteString("| Extension | Files |\n")
		b.WriteString("|-----------|-------|\n")
		for _, e := range s.Extensions[:min(len(s.Extensions), maxExtensions)] {
			p.Fprintf(&b, "| %s | %d |\n", e.Extension, e.Files)
		}
		b.WriteString("\n")
	}
	return b.String()
}
