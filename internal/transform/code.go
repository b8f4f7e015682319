package transform

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-repo2pdf/internal/emoji"
)

// Large file limits.
const (
	MaxLines  = 1000
	ChunkSize = 800
)

// codeEmojiMarker is the prefix of an emoji command inside a CodeBlock.
const codeEmojiMarker = "§emojiimg"

var longStringRe = regexp.MustCompile(`["']([^"']{100,})["']`)

// EmojiReplacer substitutes emoji with image commands. *emoji.Handler
// satisfies it.
type EmojiReplacer interface {
	Replace(ctx context.Context, text string, kind emoji.Context) string
}

// CodeOptions configures a Code transformer.
type CodeOptions struct {
	MaxLineLength   int
	SplitLargeFiles bool
	HeaderAsProse   bool // render_header_comments_outside_code
	EmojiInCode     bool // code_block_strategy codeblock_for_emoji
}

// Code rewrites source files into fenced blocks.
type Code struct {
	emoji EmojiReplacer // nil: emoji stay literal everywhere
	opts  CodeOptions
}

// NewCode creates a Code transformer. em may be nil.
func NewCode(em EmojiReplacer, opts CodeOptions) *Code {
	return &Code{emoji: em, opts: opts}
}

// Transform renders one source file as a document section: a heading, the
// optional header comment as prose, and one or more code blocks.
// Files containing an inline <svg tag yield "".
func (c *Code) Transform(ctx context.Context, content, relPath string) string {
	if strings.Contains(content, "<svg") {
		return ""
	}

	var headerMD string
	body := content
	if c.opts.HeaderAsProse {
		var header string
		header, body = ExtractHeader(body, StyleFor(relPath))
		if header != "" {
			if c.emoji != nil {
				header = c.emoji.Replace(ctx, header, emoji.Text)
			}
			headerMD = strings.TrimSpace(header) + "\n\n"
		}
	}

	body = strings.TrimRight(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	body = softenLines(body)
	threshold, width := wrapLimits(c.opts.MaxLineLength)
	body = hardWrapAll(body, threshold, width)

	if c.opts.EmojiInCode && c.emoji != nil {
		body = c.emoji.Replace(ctx, body, emoji.Code)
	}

	lang := Language(relPath)
	head := Heading(relPath) + headerMD
	lines := strings.Split(body, "\n")

	if len(lines) > MaxLines {
		if c.opts.SplitLargeFiles {
			return head + splitParts(relPath, lines, lang)
		}
		return head + Block(strings.Join(lines[:MaxLines], "\n"), lang) +
			fmt.Sprintf("\n> Truncated: showing the first %d of %d lines.\n\n", MaxLines, len(lines))
	}
	return head + Block(body, lang) + "\n"
}

// Part is one slice of a split file. Start and End are 1-based, inclusive.
type Part struct {
	Index, Total int
	Start, End   int
	Body         string
}

// SplitLines cuts lines into ChunkSize-line parts.
func SplitLines(lines []string) []Part {
	total := (len(lines) + ChunkSize - 1) / ChunkSize
	parts := make([]Part, 0, total)
	for i := range total {
		start := i * ChunkSize
		end := min(start+ChunkSize, len(lines))
		parts = append(parts, Part{
			Index: i + 1,
			Total: total,
			Start: start + 1,
			End:   end,
			Body:  strings.Join(lines[start:end], "\n"),
		})
	}
	return parts
}

func splitParts(relPath string, lines []string, lang string) string {
	parts := SplitLines(lines)
	var b strings.Builder
	fmt.Fprintf(&b, "\n> This file has %d lines, shown in %d parts.\n", len(lines), len(parts))
	for _, p := range parts {
		fmt.Fprintf(&b, "\n## %s - Part %d/%d (lines %d-%d)\n\n", relPath, p.Index, p.Total, p.Start, p.End)
		b.WriteString(Block(p.Body, lang))
	}
	b.WriteString("\n")
	return b.String()
}

// Block wraps body in a CodeBlock raw LaTeX block when it carries code emoji
// commands, and in a fenced block tagged lang otherwise.
func Block(body, lang string) string {
	if strings.Contains(body, codeEmojiMarker) {
		return "```{=latex}\n\\begin{CodeBlock}\n" + body + "\n\\end{CodeBlock}\n```\n"
	}
	return Fenced(body, lang)
}

// softenLines breaks long lines at natural boundaries before hard wrapping:
// bracketed lists at commas, long string literals into continued pieces.
func softenLines(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if utf8.RuneCountInString(line) <= softThreshold {
			continue
		}
		switch {
		case strings.ContainsAny(line, "[(") && strings.ContainsAny(line, "])"):
			lines[i] = breakAtCommas(line, softThreshold)
		case strings.ContainsAny(line, `"'`):
			lines[i] = breakLongStrings(line)
		}
	}
	return strings.Join(lines, "\n")
}

// breakAtCommas packs comma-separated pieces onto lines of at most maxLen
// runes. Commas inside string literals are not split points. Continuation
// lines take the original line's indentation.
func breakAtCommas(line string, maxLen int) string {
	pieces := splitOutsideQuotes(line, ',')
	if len(pieces) < 2 {
		return line
	}
	indent := leadingSpace(line)

	var out []string
	cur := pieces[0]
	for _, p := range pieces[1:] {
		if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(p) > maxLen {
			out = append(out, cur+",")
			cur = indent + strings.TrimLeft(p, " \t")
			continue
		}
		cur += "," + p
	}
	out = append(out, cur)
	return strings.Join(out, "\n")
}

// splitOutsideQuotes splits s at sep, ignoring separators inside '...' or
// "..." literals.
func splitOutsideQuotes(s string, sep rune) []string {
	var (
		out   []string
		start int
		quote rune
		esc   bool
	)
	for i, r := range s {
		switch {
		case esc:
			esc = false
		case r == '\\':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == sep:
			out = append(out, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(out, s[start:])
}

// breakLongStrings splits quoted strings of 100+ characters into 80-character
// pieces joined with a backslash-newline continuation.
func breakLongStrings(line string) string {
	indent := leadingSpace(line)
	return longStringRe.ReplaceAllStringFunc(line, func(m string) string {
		q, tail := m[:1], m[len(m)-1:]
		runes := []rune(m[1 : len(m)-1])
		if len(runes) <= stringPiece {
			return m
		}
		var parts []string
		for i := 0; i < len(runes); i += stringPiece {
			parts = append(parts, string(runes[i:min(i+stringPiece, len(runes))]))
		}
		return q + strings.Join(parts, q+"\\\n"+indent+q) + tail
	})
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
