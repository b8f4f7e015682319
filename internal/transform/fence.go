package transform

import "strings"

// LineKind classifies one line for the fence state machine.
type LineKind int

const (
	// LineProse is a line outside any fenced block.
	LineProse LineKind = iota
	// LineOpen is a fence opening line.
	LineOpen
	// LineBody is a line inside a fenced block.
	LineBody
	// LineClose is the matching closing fence.
	LineClose
)

// Fence is an open fenced block.
type Fence struct {
	Delimiter string // the run of ` or ~ that opened the block
	Info      string // text after the delimiter, trimmed
	Raw       bool   // {=latex} or latex: content passes through untouched
}

// Scanner is the two-state fence machine: LineProse when Current is nil,
// InFence otherwise. Feed it every line in order with Next.
type Scanner struct {
	Current *Fence
}

// Next advances the machine by one line (without its newline) and reports
// the line's role.
func (s *Scanner) Next(line string) LineKind {
	if s.Current == nil {
		f, ok := openFence(line)
		if !ok {
			return LineProse
		}
		s.Current = f
		return LineOpen
	}
	if closesFence(line, s.Current.Delimiter) {
		s.Current = nil
		return LineClose
	}
	return LineBody
}

// openFence recognizes three or more backticks or tildes, indented by at
// most three spaces.
func openFence(line string) (*Fence, bool) {
	trimmed, ok := trimIndent(line)
	if !ok || len(trimmed) < 3 {
		return nil, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return nil, false
	}
	n := runLength(trimmed, c)
	if n < 3 {
		return nil, false
	}
	info := strings.TrimSpace(trimmed[n:])
	if c == '`' && strings.ContainsRune(info, '`') {
		return nil, false
	}
	lower := strings.ToLower(info)
	return &Fence{
		Delimiter: trimmed[:n],
		Info:      info,
		Raw:       strings.Contains(lower, "{=latex}") || lower == "latex",
	}, true
}

// closesFence reports whether line is the same fence character repeated at
// least len(delim) times followed only by whitespace.
func closesFence(line, delim string) bool {
	trimmed, ok := trimIndent(line)
	if !ok {
		return false
	}
	n := runLength(trimmed, delim[0])
	return n >= len(delim) && strings.TrimSpace(trimmed[n:]) == ""
}

func trimIndent(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	return trimmed, len(line)-len(trimmed) <= 3
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// Segment is a run of consecutive lines with the same fence role. Prose
// segments hold prose lines; fenced segments hold a whole block including
// its delimiters. Text keeps its trailing newlines.
type Segment struct {
	Text   string
	Fenced bool
	Fence  Fence // zero for prose
}

// Split cuts content into alternating prose and fenced segments.
// Joining every Segment.Text reproduces content exactly. An unterminated
// fence runs to the end of content.
func Split(content string) []Segment {
	var (
		out  []Segment
		sc   Scanner
		cur  strings.Builder
		curF *Fence
	)
	flush := func(fenced bool) {
		if cur.Len() == 0 {
			return
		}
		seg := Segment{Text: cur.String(), Fenced: fenced}
		if fenced && curF != nil {
			seg.Fence = *curF
		}
		out = append(out, seg)
		cur.Reset()
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		switch sc.Next(strings.TrimRight(line, "\r\n")) {
		case LineOpen:
			flush(false)
			curF = sc.Current
			cur.WriteString(line)
		case LineClose:
			cur.WriteString(line)
			flush(true)
			curF = nil
		default:
			cur.WriteString(line)
		}
	}
	flush(sc.Current != nil)
	return out
}
