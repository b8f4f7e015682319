package transform

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
)

var codeTitleRe = regexp.MustCompile("(?m)^(\\s{0,3}```+\\w+)\\s+title=\"[^\"]+\"")

// Markdown rewrites Markdown files into the document dialect.
type Markdown struct {
	images        ImageResolver
	root          string
	maxLineLength int
	logger        *slog.Logger
}

// NewMarkdown creates a Markdown transformer for files under root.
func NewMarkdown(images ImageResolver, root string, maxLineLength int, logger *slog.Logger) *Markdown {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Markdown{images: images, root: root, maxLineLength: maxLineLength, logger: logger}
}

// Transform rewrites content, read from srcPath, in order:
//  1. drops title="..." from code fence info strings;
//  2. collects reference definitions;
//  3. resolves every image reference or drops it;
//  4. escapes \uXXXX and \UXXXXXXXX outside code;
//  5. escapes standalone --- lines;
//  6. hard-wraps long lines in fenced blocks, raw blocks excepted;
//  7. scrubs any remote image reference left in prose.
func (m *Markdown) Transform(ctx context.Context, content, srcPath string) string {
	content = codeTitleRe.ReplaceAllString(content, "$1")
	segs := Split(content)

	var prose strings.Builder
	for _, s := range segs {
		if !s.Fenced {
			prose.WriteString(s.Text)
		}
	}
	refs := collectRefs(prose.String())

	rw := &imageRewriter{
		images: m.images,
		root:   m.root,
		srcDir: filepath.Dir(srcPath),
		logger: m.logger.With("path", srcPath),
	}
	threshold, width := wrapLimits(m.maxLineLength)

	var b strings.Builder
	b.Grow(len(content))
	for _, s := range segs {
		switch {
		case s.Fenced && s.Fence.Raw:
			b.WriteString(s.Text)
		case s.Fenced:
			b.WriteString(wrapFencedBody(s.Text, threshold, width))
		default:
			p := s.Text
			if m.images != nil {
				p = rw.rewrite(ctx, p, refs)
			}
			p = outsideCodeSpans(p, escapeUnicode)
			p = escapeRules(p)
			b.WriteString(scrubProse(p, refs))
		}
	}
	return b.String()
}

// wrapFencedBody hard-wraps the body lines of one fenced segment.
func wrapFencedBody(seg string, threshold, width int) string {
	var (
		b  strings.Builder
		sc Scanner
	)
	for _, line := range strings.SplitAfter(seg, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimRight(line, "\r\n")
		if sc.Next(text) != LineBody {
			b.WriteString(line)
			continue
		}
		b.WriteString(hardWrap(text, threshold, width))
		b.WriteString(line[len(text):])
	}
	return b.String()
}

// escapeUnicode doubles the backslash of \uXXXX and \UXXXXXXXX escapes that
// are not already escaped.
func escapeUnicode(s string) string {
	if !strings.Contains(s, `\u`) && !strings.Contains(s, `\U`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	run := 0 // consecutive backslashes before i
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && run%2 == 0 && isUnicodeEscape(s[i+1:]) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		if c == '\\' {
			run++
		} else {
			run = 0
		}
	}
	return b.String()
}

func isUnicodeEscape(s string) bool {
	if s == "" {
		return false
	}
	n := 0
	switch s[0] {
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		return false
	}
	if len(s) < 1+n {
		return false
	}
	for _, c := range s[1 : 1+n] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// outsideCodeSpans applies fn to the parts of s outside `inline code` spans.
func outsideCodeSpans(s string, fn func(string) string) string {
	if !strings.Contains(s, "`") {
		return fn(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	last, i := 0, 0
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		n := runLength(s[i:], '`')
		end := closingRun(s, i+n, n)
		if end < 0 {
			i += n
			continue
		}
		b.WriteString(fn(s[last:i]))
		b.WriteString(s[i:end])
		last, i = end, end
	}
	b.WriteString(fn(s[last:]))
	return b.String()
}

// closingRun finds a run of exactly n backticks at or after from and returns
// the index just past it, or -1.
func closingRun(s string, from, n int) int {
	for j := from; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		k := runLength(s[j:], '`')
		if k == n {
			return j + k
		}
		j += k
	}
	return -1
}

// escapeRules rewrites lines consisting of exactly --- so Pandoc does not
// read them as a metadata block delimiter.
func escapeRules(s string) string {
	if !strings.Contains(s, "---") {
		return s
	}
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, "\r\n") == "---" {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "")
}
