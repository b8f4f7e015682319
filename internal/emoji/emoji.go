// Package emoji finds emoji in text, resolves them to Twemoji PNG files and
// replaces them with LaTeX image commands.
package emoji

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern matches one emoji: a base code point, an optional VS16, and any
// number of zero-width-joiner continuations.
var pattern = regexp.MustCompile(
	`([\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}])(\x{FE0F})?` +
		`(?:\x{200D}[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}](\x{FE0F})?)*`,
)

// variationSelector is the VS16 code point as it appears in a sequence.
const variationSelector = "fe0f"

// Match is one emoji occurrence. Start and End are byte offsets.
type Match struct {
	Start    int
	End      int
	Text     string
	Sequence string
}

// Detect returns every emoji in text, in order.
func Detect(text string) []Match {
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, len(locs))
	for i, loc := range locs {
		s := text[loc[0]:loc[1]]
		out[i] = Match{Start: loc[0], End: loc[1], Text: s, Sequence: Sequence(s)}
	}
	return out
}

// Contains reports whether text holds at least one emoji.
func Contains(text string) bool {
	return pattern.MatchString(text)
}

// Sequence renders s as lower-case hex code points joined by "-",
// e.g. "1f468-200d-1f469".
func Sequence(s string) string {
	parts := make([]string, 0, len(s)/3)
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}

// Candidates lists the file names to try for seq: the full sequence, the
// sequence without VS16, then the first code point alone.
func Candidates(seq string) []string {
	out := []string{seq}
	add := func(s string) {
		for _, v := range out {
			if v == s {
				return
			}
		}
		out = append(out, s)
	}

	parts := strings.Split(seq, "-")
	kept := parts[:0:0]
	for _, p := range parts {
		if p != variationSelector {
			kept = append(kept, p)
		}
	}
	if len(kept) > 0 {
		add(strings.Join(kept, "-"))
	}
	add(parts[0])
	return out
}
