// Package assemble writes the intermediate Markdown document.
//
// A Writer streams blocks into temp.md and flushes after each one, so the
// document never has to fit in memory and a crashed run still leaves the
// processed prefix on disk. Finalize runs the residual remote-image scrub
// over the whole file. The Layout type drives the front matter written
// between the title and the first file section.
package assemble
