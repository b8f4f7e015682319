// Package typeset produces the inputs of the Pandoc/XeLaTeX run: the LaTeX
// preamble rendered from a template set, the Pandoc defaults file, and the
// pandoc command line itself.
package typeset
