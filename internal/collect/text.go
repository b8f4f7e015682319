package collect

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of a file IsText inspects.
const sniffLen = 8000

// IsText reports whether data looks like text: no NUL byte in the first
// 8000 bytes and a MIME type descending from text/plain.
func IsText(data []byte) bool {
	sample := data[:min(len(data), sniffLen)]
	if len(sample) == 0 {
		return true
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}
	for m := mimetype.Detect(sample); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
