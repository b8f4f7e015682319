// Package transform rewrites repository files into the Pandoc Markdown the
// assembled document is made of.
//
// Markdown files keep their prose; their image references are resolved into
// the local image cache or dropped, so the document never points at the
// network. Source files become fenced code blocks, optionally preceded by
// their header comment rendered as prose, and split into parts when long.
//
// Both transformers scan text with the same fence state machine (Scanner):
// a line is either prose or belongs to a fenced block, and a fenced block is
// either ordinary code or raw pass-through (```{=latex}).
package transform
