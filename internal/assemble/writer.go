package assemble

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/transform"
)

// Sentinel errors for document assembly.
var (
	ErrClosed = errors.New("document writer is closed")
	ErrWrite  = errors.New("writing document")
)

// Writer appends blocks to the intermediate document.
type Writer struct {
	path   string
	f      *os.File
	buf    *bufio.Writer
	blocks int
	closed bool
}

// Create truncates or creates the document at path.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileutil.FilePerm) // #nosec G304 -- path is the configured temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return &Writer{path: path, f: f, buf: bufio.NewWriter(f)}, nil
}

// Path returns the document path.
func (w *Writer) Path() string { return w.path }

// Blocks returns how many non-empty blocks have been written.
func (w *Writer) Blocks() int { return w.blocks }

// WriteTitle writes the top-level title line.
func (w *Writer) WriteTitle(title string) error {
	return w.WriteBlock("# " + strings.TrimSpace(title) + "\n\n")
}

// WriteSection writes a front matter section followed by a blank line.
func (w *Writer) WriteSection(body string) error {
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return nil
	}
	return w.WriteBlock(body + "\n\n")
}

// WriteBlock appends block verbatim and flushes. Empty blocks are skipped.
func (w *Writer) WriteBlock(block string) error {
	if w.closed {
		return ErrClosed
	}
	if block == "" {
		return nil
	}
	if _, err := w.buf.WriteString(block); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	w.blocks++
	return nil
}

// Close flushes and closes the file without the final scrub. It is safe to
// call after Finalize.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.buf.Flush()
	closeErr := w.f.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Finalize closes the document and removes any remote image reference left
// outside fenced blocks. The file is rewritten only when the scrub changed
// something.
func (w *Writer) Finalize() error {
	if err := w.Close(); err != nil {
		return err
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	scrubbed := transform.ScrubRemoteImages(string(data))
	if scrubbed == string(data) {
		return nil
	}
	if err := fileutil.WriteFileAtomic(w.path, []byte(scrubbed)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
