// Package dateutil renders the date strings used on the cover page and in
// output file names.
//
// Patterns use tokens instead of Go reference layouts:
//
//	YYYY YY      year
//	MMMM MMM     month name, full and short
//	MM M         month number, padded and bare
//	DD D         day of month, padded and bare
//	HH mm ss     hour (24h), minute, second
//
// Anything else is copied through, and text in [brackets] is always literal.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date pattern or "auto" value.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds pattern length.
const MaxDateFormatLength = 50

// DefaultDateFormat is what a bare "auto" renders with.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are named patterns accepted after "auto:".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokenLayouts maps a run of one repeated letter to its Go layout.
var tokenLayouts = map[string]string{
	"YYYY": "2006",
	"YY":   "06",
	"MMMM": "January",
	"MMM":  "Jan",
	"MM":   "01",
	"M":    "1",
	"DD":   "02",
	"D":    "2",
	"HH":   "15",
	"mm":   "04",
	"ss":   "05",
}

// segment is either literal text or a Go layout fragment.
type segment struct {
	text   string
	layout bool
}

// Layout is a compiled pattern.
type Layout struct {
	segs []segment
}

// Parse compiles pattern. Runs of a token letter that match no token
// (YYY, DDD) are kept as literal text.
func Parse(pattern string) (Layout, error) {
	if pattern == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(pattern) > MaxDateFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var l Layout
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c == '[' {
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			l.add(pattern[i+1:i+1+end], false)
			i += end + 2
			continue
		}

		j := i + 1
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		run := pattern[i:j]
		if goFmt, ok := tokenLayouts[run]; ok {
			l.add(goFmt, true)
		} else {
			l.add(run, false)
		}
		i = j
	}
	return l, nil
}

// add appends text, merging with the previous segment of the same kind.
func (l *Layout) add(text string, layout bool) {
	if text == "" {
		return
	}
	if n := len(l.segs); n > 0 && !layout && !l.segs[n-1].layout {
		l.segs[n-1].text += text
		return
	}
	l.segs = append(l.segs, segment{text: text, layout: layout})
}

// Format renders t. Literal segments never pass through time.Format, so
// digits and month names in them are not reinterpreted.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, s := range l.segs {
		if s.layout {
			b.WriteString(t.Format(s.text))
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}

// Format renders t with pattern.
func Format(t time.Time, pattern string) (string, error) {
	l, err := Parse(pattern)
	if err != nil {
		return "", err
	}
	return l.Format(t), nil
}

// ResolveDate interprets the config "date" value:
//
//	"auto"           t as YYYY-MM-DD
//	"auto:PATTERN"   t with PATTERN
//	"auto:PRESET"    t with a named preset (iso, european, us, long)
//	anything else    returned unchanged, including ""
//
// The "auto" prefix is case-insensitive; the pattern keeps its case.
func ResolveDate(value string, t time.Time) (string, error) {
	prefix, rest, hasColon := strings.Cut(value, ":")
	if !strings.EqualFold(prefix, "auto") {
		if strings.HasPrefix(strings.ToLower(value), "auto") {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		return value, nil
	}
	if !hasColon {
		return Format(t, DefaultDateFormat)
	}
	if rest == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(rest)]; ok {
		rest = preset
	}
	return Format(t, rest)
}
