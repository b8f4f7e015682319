// Package pathmatch matches repository-relative paths against glob patterns
// with "**" segment wildcards.
//
// Matching is case-insensitive. A "**" segment absorbs zero or more whole
// path segments; every other segment follows path.Match semantics.
package pathmatch

import (
	"path"
	"strings"
)

// doubleStar is the recursive segment wildcard.
const doubleStar = "**"

// Split normalizes p to lower-cased, forward-slash separated segments.
// Leading "./" and "/" prefixes and empty segments are dropped.
func Split(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") || strings.HasPrefix(p, "/") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, "./"), "/")
	}
	raw := strings.Split(strings.ToLower(p), "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return segs
}

// Match reports whether p matches pattern.
// Malformed patterns never match.
func Match(p, pattern string) bool {
	return matchSegments(Split(p), Split(pattern))
}

// MatchAny reports whether p matches at least one of patterns.
func MatchAny(p string, patterns []string) bool {
	segs := Split(p)
	for _, pattern := range patterns {
		if matchSegments(segs, Split(pattern)) {
			return true
		}
	}
	return false
}

// Ignored applies ignore-list semantics to a relative path.
// Patterns containing a slash are anchored globs matched against the whole
// path (and its ancestors, so a directory pattern excludes its subtree).
// Patterns without a slash are matched against every single segment, so
// "node_modules" excludes "a/node_modules/x.js" but not "node_modules_old.js".
func Ignored(rel string, patterns []string) bool {
	segs := Split(rel)
	for _, pattern := range patterns {
		trimmed := strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if trimmed == "" {
			continue
		}
		pat := Split(trimmed)
		if len(pat) == 0 {
			continue
		}
		if strings.Contains(trimmed, "/") {
			if matchSegments(segs, pat) || matchSegments(segs, append(pat, doubleStar)) {
				return true
			}
			continue
		}
		for _, s := range segs {
			if segmentMatch(pat[0], s) {
				return true
			}
		}
	}
	return false
}

// matchSegments runs the segment-indexed recurrence bottom-up.
// m[i][j] holds whether path[i:] matches pattern[j:].
func matchSegments(p, pat []string) bool {
	m := make([][]bool, len(p)+1)
	for i := range m {
		m[i] = make([]bool, len(pat)+1)
	}
	m[len(p)][len(pat)] = true

	for i := len(p); i >= 0; i-- {
		for j := len(pat) - 1; j >= 0; j-- {
			if pat[j] == doubleStar {
				m[i][j] = m[i][j+1] || (i < len(p) && m[i+1][j])
				continue
			}
			m[i][j] = i < len(p) && segmentMatch(pat[j], p[i]) && m[i+1][j+1]
		}
	}
	return m[0][0]
}

// segmentMatch matches one pattern segment against one path segment.
func segmentMatch(pattern, segment string) bool {
	ok, err := path.Match(pattern, segment)
	return err == nil && ok
}
