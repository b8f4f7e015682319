package report

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/transform"
)

// DefaultMaxDepth is the tree depth used when none is configured.
const DefaultMaxDepth = 3

// Tree glyphs.
const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

// TreeOptions configures Tree.
type TreeOptions struct {
	// MaxDepth is the deepest nesting level listed; the root's children are
	// level 0.
	MaxDepth int
	// Exclude reports whether a slash separated relative path is left out.
	// *collect.Collector's Excluded method fits.
	Exclude func(rel string, isDir bool) bool
}

// Tree renders the "Project Structure" section for root: directories first,
// names compared case-insensitively, files annotated with their size.
func Tree(root string, opts TreeOptions) string {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Exclude == nil {
		opts.Exclude = func(string, bool) bool { return false }
	}

	lines := []string{filepath.Base(filepath.Clean(root)) + "/"}
	lines = append(lines, buildTree(root, "", "", 0, opts)...)
	return "# Project Structure\n\n" + transform.Fenced(strings.Join(lines, "\n"), "text") + "\n"
}

type treeEntry struct {
	name  string
	rel   string
	isDir bool
	size  int64
}

func buildTree(dir, rel, prefix string, depth int, opts TreeOptions) []string {
	if depth > opts.MaxDepth {
		return nil
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return []string{prefix + "[Permission Denied]"}
	}

	var entries []treeEntry
	for _, d := range dirEntries {
		childRel := d.Name()
		if rel != "" {
			childRel = rel + "/" + d.Name()
		}
		e := treeEntry{name: d.Name(), rel: childRel, isDir: d.IsDir()}
		if opts.Exclude(e.rel, e.isDir) {
			continue
		}
		if !e.isDir {
			info, err := d.Info()
			if err != nil {
				e.size = -1
			} else {
				e.size = info.Size()
			}
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b treeEntry) int {
		if a.isDir != b.isDir {
			if a.isDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	})

	var lines []string
	for i, e := range entries {
		glyph, ext := branch, pipe
		if i == len(entries)-1 {
			glyph, ext = lastBranch, blank
		}
		if e.isDir {
			lines = append(lines, prefix+glyph+e.name+"/")
			lines = append(lines, buildTree(filepath.Join(dir, e.name), e.rel, prefix+ext, depth+1, opts)...)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s%s (%s)", prefix, glyph, e.name, FormatSize(e.size)))
	}
	return lines
}

// FormatSize renders a byte count as B, KB or MB with one decimal.
// Negative sizes are unknown.
func FormatSize(n int64) string {
	switch {
	case n < 0:
		return "??"
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}
