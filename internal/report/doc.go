// Package report renders the front matter of the document: the directory
// tree and the code statistics tables.
package report
