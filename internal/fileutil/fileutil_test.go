package fileutil_test

// Notes:
// - WriteTempFile: the Write and Close error branches are not tested because
//   triggering disk write failures is platform-specific.
// - IsWithin: symlink escapes are covered on platforms where os.Symlink works;
//   the test is skipped otherwise.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid extension svg", "svg", nil},
		{"valid extension md", "md", nil},
		{"empty extension", "", fileutil.ErrExtensionEmpty},
		{"forward slash path traversal", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash path traversal", "..\\windows\\system32", fileutil.ErrExtensionPathTraversal},
		{"null byte injection", "svg\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{"svg file", `<svg width="1" height="1"></svg>`, "svg"},
		{"empty content", "", "md"},
		{"unicode content", "# Héllo wörld ✨", "md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path, cleanup, err := fileutil.WriteTempFile(dir, []byte(tt.content), tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}
			defer cleanup()

			if filepath.Dir(path) != dir {
				t.Errorf("path %q not created in %q", path, dir)
			}
			if !strings.Contains(filepath.Base(path), "repo2pdf-") {
				t.Errorf("path %q does not contain prefix 'repo2pdf-'", path)
			}
			if !strings.HasSuffix(path, "."+tt.extension) {
				t.Errorf("path %q does not have extension .%s", path, tt.extension)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read temp file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content = %q, want %q", string(data), tt.content)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_Cleanup - Cleanup function removes file
// ---------------------------------------------------------------------------

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile(t.TempDir(), []byte("test content"), "svg")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("temp file does not exist at %s", path)
	}

	cleanup()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile_Errors - Invalid extension and directory
// ---------------------------------------------------------------------------

func TestWriteTempFile_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile(t.TempDir(), []byte("x"), "")
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("empty extension error = %v, want ErrExtensionEmpty", err)
	}

	_, _, err = fileutil.WriteTempFile(t.TempDir(), []byte("x"), "../foo")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("traversal error = %v, want ErrExtensionPathTraversal", err)
	}

	_, _, err = fileutil.WriteTempFile(filepath.Join(t.TempDir(), "missing", "dir"), []byte("x"), "svg")
	if err == nil || !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("missing dir error = %v, want error containing 'creating temp file'", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Existence checks
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{"existing file", testFile, true, false},
		{"directory", tempDir, false, true},
		{"nonexistent path", filepath.Join(tempDir, "nonexistent"), false, false},
		{"empty path", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - String classification
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"technical", false},
		{"my-config", false},
		{"./config.yaml", true},
		{"../shared/config.yaml", true},
		{"/abs/config.yaml", true},
		{`C:\configs\a.yaml`, true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"ftp://example.com/a.png", false},
		{"images/a.png", false},
		{"//cdn.example.com/a.png", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestContentHash - Deterministic cache keys
// ---------------------------------------------------------------------------

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := fileutil.ContentHash([]byte("<svg/>"))
	b := fileutil.ContentHash([]byte("<svg/>"))
	c := fileutil.ContentHash([]byte("<svg />"))

	if a != b {
		t.Errorf("same content produced different hashes: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different content produced the same hash")
	}
	if len(a) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(a))
	}
	if fileutil.StringHash("<svg/>") != a {
		t.Error("StringHash and ContentHash disagree on the same input")
	}
}

// ---------------------------------------------------------------------------
// TestCopyFile - Byte copy with overwrite
// ---------------------------------------------------------------------------

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")

	if err := os.WriteFile(src, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("older and longer content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x89PNG" {
		t.Errorf("dst content = %q, want %q", got, "\x89PNG")
	}

	if err := fileutil.CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Error("CopyFile() with missing source should fail")
	}
}

// ---------------------------------------------------------------------------
// TestIsWithin - Containment checks
// ---------------------------------------------------------------------------

func TestIsWithin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inner := filepath.Join(root, "a", "b.txt")
	if err := os.MkdirAll(filepath.Dir(inner), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inner, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root itself", root, true},
		{"nested file", inner, true},
		{"parent traversal", filepath.Join(root, "..", "elsewhere"), false},
		{"prefix sibling", root + "evil", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsWithin(root, tt.path); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", root, tt.path, got, tt.want)
			}
		})
	}
}

func TestIsWithin_SymlinkEscape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if fileutil.IsWithin(root, link) {
		t.Error("IsWithin() should reject a symlink pointing outside root")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file leaked)", len(entries))
	}

	if err := fileutil.WriteFileAtomic(filepath.Join(dir, "missing", "x"), nil); err == nil {
		t.Error("WriteFileAtomic() into a missing directory should fail")
	}
}
