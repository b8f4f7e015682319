package transform

import (
	"strings"
	"unicode/utf8"
)

// Line length rules.
const (
	minLineLength = 40
	maxWrapWidth  = 160
	wrapRatio     = 0.75
	softThreshold = 80  // long-line softening kicks in above this
	longString    = 100 // quoted strings this long are split
	stringPiece   = 80
)

// wrapLimits returns the hard-wrap threshold and chunk width for a
// configured max_line_length.
func wrapLimits(maxLineLength int) (threshold, width int) {
	threshold = max(minLineLength, maxLineLength)
	width = min(maxWrapWidth, max(minLineLength, int(float64(maxLineLength)*wrapRatio)))
	return threshold, width
}

// hardWrap slices a line longer than threshold runes into width-rune chunks
// joined by newlines. Shorter lines are returned unchanged.
func hardWrap(line string, threshold, width int) string {
	if utf8.RuneCountInString(line) <= threshold {
		return line
	}
	runes := []rune(line)
	var b strings.Builder
	b.Grow(len(line) + len(runes)/width + 1)
	for i := 0; i < len(runes); i += width {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(runes[i:min(i+width, len(runes))]))
	}
	return b.String()
}

// hardWrapAll applies hardWrap to every line of s.
func hardWrapAll(s string, threshold, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = hardWrap(l, threshold, width)
	}
	return strings.Join(lines, "\n")
}
