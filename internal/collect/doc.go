// Package collect discovers the repository files worth rendering.
//
// A Collector walks the tree in sorted order and applies, in this order:
// the hidden-path rule (with an allow-list and include_hidden_paths),
// ignore patterns, binary extensions, the per-file size ceiling (images are
// exempt) and symlink containment. Rules that look only at the path are
// exposed through Excluded so the directory tree report can share them.
package collect
