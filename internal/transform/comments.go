package transform

import (
	"path/filepath"
	"strings"
)

// CommentStyle is the line-comment family of a language.
type CommentStyle int

const (
	StyleNone  CommentStyle = iota
	StyleCLike              // // and /* */
	StyleHash               // #
	StyleSQL                // --
)

var commentStyles = map[string]CommentStyle{
	".js": StyleCLike, ".jsx": StyleCLike, ".ts": StyleCLike, ".tsx": StyleCLike,
	".java": StyleCLike, ".cpp": StyleCLike, ".c": StyleCLike, ".go": StyleCLike,
	".cs": StyleCLike, ".php": StyleCLike,

	".py": StyleHash, ".sh": StyleHash, ".bash": StyleHash, ".zsh": StyleHash,
	".rb": StyleHash, ".yaml": StyleHash, ".yml": StyleHash, ".toml": StyleHash,
	".ini": StyleHash,

	".sql": StyleSQL,
}

// StyleFor returns the comment style of a file extension or name.
func StyleFor(name string) CommentStyle {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = strings.ToLower(name)
	}
	return commentStyles[ext]
}

// marker returns the line-comment prefix of the style.
func (s CommentStyle) marker() string {
	switch s {
	case StyleCLike:
		return "//"
	case StyleHash:
		return "#"
	case StyleSQL:
		return "--"
	}
	return ""
}

// ExtractHeader splits a leading comment block off content. The block is
// consecutive comment lines (for C-like styles, an optional /* */ block
// followed by // lines) plus one trailing blank line. The header is returned
// without comment markers; rest keeps its original line endings.
//
// A blank or non-comment first line, a shebang, or StyleNone yield
// ("", content).
func ExtractHeader(content string, style CommentStyle) (header, rest string) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || style == StyleNone {
		return "", content
	}
	text := func(i int) string { return strings.TrimSpace(lines[i]) }
	if text(0) == "" || strings.HasPrefix(text(0), "#!") {
		return "", content
	}

	var chunks []string
	i := 0
	marker := style.marker()

	if style == StyleCLike && strings.HasPrefix(text(0), "/*") {
		var consumed []string
		consumed, i = blockComment(lines)
		chunks = append(chunks, consumed...)
	} else if !strings.HasPrefix(text(0), marker) {
		return "", content
	}

	for i < len(lines) && strings.HasPrefix(text(i), marker) {
		chunks = append(chunks, strings.TrimSpace(strings.TrimPrefix(text(i), marker)))
		i++
	}
	if i < len(lines) && text(i) == "" {
		i++
	}

	for j, c := range chunks {
		chunks[j] = strings.TrimRight(c, " \t")
	}
	return strings.TrimSpace(strings.Join(chunks, "\n")), strings.Join(lines[i:], "")
}

// blockComment consumes a /* */ comment starting on the first line and
// returns its text lines and the index of the first line after it.
// Leading " * " decorations are removed.
func blockComment(lines []string) ([]string, int) {
	var out []string
	line := strings.TrimPrefix(strings.TrimSpace(lines[0]), "/*")
	for i := 0; i < len(lines); {
		if end := strings.Index(line, "*/"); end >= 0 {
			out = append(out, decoration(line[:end]))
			return out, i + 1
		}
		out = append(out, decoration(line))
		i++
		if i < len(lines) {
			line = strings.TrimRight(lines[i], "\r\n")
		}
	}
	return out, len(lines)
}

func decoration(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "*") {
		t = strings.TrimSpace(strings.TrimLeft(t, "*"))
	}
	return t
}
