// Package assets holds the LaTeX preambles, front-matter layouts and print
// styles repo2pdf renders with.
//
// Built-in assets are embedded at compile time. A directory passed with
// --asset-path may shadow any of them by name:
//
//	<dir>/styles/<name>.css              print style (chrome engine)
//	<dir>/templates/<name>/header.tex    preamble, text/template with << >>
//	<dir>/templates/<name>/layout.yaml   front-matter sections
//
// AssetResolver looks in the custom directory first and falls back to the
// built-in copy only when the custom one does not exist. A custom set that
// exists but is incomplete is an error, never silently replaced.
//
// Names are limited to letters, digits, '-' and '_'. Custom files reached
// through a symlink that leaves the directory are refused.
package assets
