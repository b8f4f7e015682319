// Package pipeline turns the assembled Markdown document into standalone
// HTML for the chrome engine and the --html preview.
//
// Stages, in order:
//   - Markdown to HTML via goldmark (GFM, footnotes, chroma highlighting)
//   - relative src and href attributes resolved to file:// URLs
//   - title block and table of contents injected after <body>
//   - stylesheet injected into <head>
//
// Printing the HTML is left to the root package.
package pipeline
