package transform

// Notes:
// - Image resolution is faked: the fake records calls and answers from the
//   file name, so the decision tree is observed without touching imageconv.
// - Local image candidates are real files in t.TempDir().

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

type fakeImages struct {
	local    []string
	remote   []string
	contents int
}

func (f *fakeImages) ResolveLocal(_ context.Context, p string) (string, bool) {
	f.local = append(f.local, p)
	if strings.HasSuffix(p, ".svg") {
		return "images/0a1b2c.png", true
	}
	return "images/" + filepath.Base(p), true
}

func (f *fakeImages) Download(_ context.Context, u string) (string, bool) {
	f.remote = append(f.remote, u)
	if strings.Contains(u, "fail") {
		return "", false
	}
	return "images/remote.png", true
}

func (f *fakeImages) ConvertContent(_ context.Context, _ []byte) (string, bool) {
	f.contents++
	return "images/inline.png", true
}

// newRepo creates a repository root with docs/guide.md's neighbors.
func newRepo(t *testing.T, files ...string) (root, src string) {
	t.Helper()

	root = t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, filepath.Join(root, "docs", "guide.md")
}

var remoteTargetRe = regexp.MustCompile(`(?i)(\]\(\s*<?https?://|<img[^>]+src\s*=\s*["']?https?://)`)

// ---------------------------------------------------------------------------
// TestMarkdown_Images - Decision tree
// ---------------------------------------------------------------------------

func TestMarkdown_Transform_Images(t *testing.T) {
	t.Parallel()

	root, src := newRepo(t, "docs/img.svg", "docs/shot.png", "assets/logo.png", "docs/my pic.png")

	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:    "local svg becomes cached png",
			input:   "![Alt](img.svg)\n",
			want:    []string{"![Alt](images/0a1b2c.png)"},
			notWant: []string{"img.svg"},
		},
		{
			name:  "local raster relative to file",
			input: `![Shot](./shot.png "A title")` + "\n",
			want:  []string{`![Shot](images/shot.png "A title")`},
		},
		{
			name:  "root absolute path resolves against repository",
			input: "![Logo](/assets/logo.png)\n",
			want:  []string{"![Logo](images/logo.png)"},
		},
		{
			name:  "percent-encoded path",
			input: "![p](my%20pic.png)\n",
			want:  []string{"![p](images/my pic.png)"},
		},
		{
			name:    "missing local image dropped",
			input:   "before ![gone](nope.png) after\n",
			want:    []string{"before  after"},
			notWant: []string{"nope.png"},
		},
		{
			name:  "remote image downloaded",
			input: "![r](https://example.com/ok.png)\n",
			want:  []string{"![r](images/remote.png)"},
		},
		{
			name:  "html img tag",
			input: `<p><img alt="Shot" width="30" src="shot.png"></p>` + "\n",
			want:  []string{"<p>![Shot](images/shot.png)</p>"},
		},
		{
			name:  "reference image case-insensitive id",
			input: "![Logo][LOGO]\n\n[logo]: /assets/logo.png \"Brand\"\n",
			want:  []string{`![Logo](images/logo.png "Brand")`},
		},
		{
			name:  "single-quoted title",
			input: "![q](shot.png 'Quoted')\n",
			want:  []string{`![q](images/shot.png "Quoted")`},
		},
		{
			name:  "parenthesized title",
			input: "![p](https://example.com/ok.png (Paren))\n",
			want:  []string{`![p](images/remote.png "Paren")`},
		},
		{
			name:    "shortcut reference image",
			input:   "![Logo]\n\n[logo]: https://example.com/ok.png\n",
			want:    []string{"![Logo](images/remote.png)"},
			notWant: []string{"![Logo]\n"},
		},
		{
			name:  "collapsed reference image",
			input: "![logo][]\n\n[logo]: /assets/logo.png\n",
			want:  []string{"![logo](images/logo.png)"},
		},
		{
			name:  "shortcut without definition left alone",
			input: "see ![note] here\n",
			want:  []string{"see ![note] here"},
		},
		{
			name:  "unknown reference left alone",
			input: "![x][missing]\n",
			want:  []string{"![x][missing]"},
		},
		{
			name:  "inline svg block",
			input: "<svg width=\"10\" height=\"10\">\n<rect/>\n</svg>\n",
			want:  []string{"![](images/inline.png)"},
		},
		{
			name:  "svg without size left in place",
			input: "<svg><rect/></svg>\n",
			want:  []string{"<svg><rect/></svg>"},
		},
		{
			name:  "images inside fences untouched",
			input: "```md\n![x](https://example.com/fail.png)\n```\n",
			want:  []string{"![x](https://example.com/fail.png)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMarkdown(&fakeImages{}, root, 200, nil)
			got := m.Transform(context.Background(), tt.input, src)

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("output still contains %q:\n%s", nw, got)
				}
			}
		})
	}
}

func TestMarkdown_Transform_FailedDownloadsLeaveNoRemoteTargets(t *testing.T) {
	t.Parallel()

	root, src := newRepo(t)
	input := strings.Join([]string{
		"# Badges",
		"![ci](https://fail.example/ci.svg) ![cov](http://fail.example/cov.png \"Coverage\")",
		`<img src="https://fail.example/logo.png" alt="logo">`,
		`<IMG SRC='http://fail.example/x.gif'>`,
		"![ref][badge]",
		"![a](https://fail.example/a.png 'Logo')",
		"![b](https://fail.example/b.png (Paren))",
		"![logo]",
		"",
		"[badge]: https://fail.example/badge.png",
		"[logo]: https://fail.example/logo.png",
		"",
	}, "\n")

	images := &fakeImages{}
	got := NewMarkdown(images, root, 200, nil).Transform(context.Background(), input, src)

	if remoteTargetRe.MatchString(got) {
		t.Errorf("remote image target survived:\n%s", got)
	}
	if len(images.remote) != 8 {
		t.Errorf("download attempts = %d, want 8", len(images.remote))
	}
	for _, leftover := range []string{"'Logo'", "(Paren)", "![logo]"} {
		if strings.Contains(got, leftover) {
			t.Errorf("output still contains %q:\n%s", leftover, got)
		}
	}
	if !strings.Contains(got, "# Badges") {
		t.Errorf("prose lost:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// TestMarkdown_Escapes - \u sequences, rules, titles
// ---------------------------------------------------------------------------

func TestMarkdown_Transform_Escapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unicode escape in prose", `Use \u00e9 here` + "\n", `Use \\u00e9 here` + "\n"},
		{"long unicode escape", `\U0001F600` + "\n", `\\U0001F600` + "\n"},
		{"already escaped kept", `\\u00e9` + "\n", `\\u00e9` + "\n"},
		{"not hex", `\user` + "\n", `\user` + "\n"},
		{"inline code untouched", "call `\\u0041` now \\u0042\n", "call `\\u0041` now \\\\u0042\n"},
		{"fence untouched", "```\n\\u0041\n```\n", "```\n\\u0041\n```\n"},
		{"rule escaped", "a\n---\nb\n", "a\n\\---\nb\n"},
		{"rule in fence kept", "```\n---\n```\n", "```\n---\n```\n"},
		{"longer dashes kept", "----\n", "----\n"},
		{"code title stripped", "```python title=\"app.py\"\nx\n```\n", "```python\nx\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewMarkdown(nil, t.TempDir(), 200, nil).Transform(context.Background(), tt.input, "x.md")
			if got != tt.want {
				t.Errorf("Transform() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarkdown_Wrap - Hard wrap in fences
// ---------------------------------------------------------------------------

func TestMarkdown_Transform_WrapsFencedLines(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 130)
	m := NewMarkdown(nil, t.TempDir(), 100, nil) // threshold 100, width 75

	got := m.Transform(context.Background(), "```\n"+long+"\n```\n"+long+"\n", "x.md")
	want := "```\n" + long[:75] + "\n" + long[75:] + "\n```\n" + long + "\n"
	if got != want {
		t.Errorf("Transform() =\n%s\nwant\n%s", got, want)
	}

	raw := "```{=latex}\n" + long + "\n```\n"
	if got := m.Transform(context.Background(), raw, "x.md"); got != raw {
		t.Errorf("raw block changed:\n%s", got)
	}
}

func TestWrapLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mll           int
		wantThreshold int
		wantWidth     int
	}{
		{200, 200, 150},
		{60, 60, 45},
		{20, 40, 40},
		{500, 500, 160},
	}

	for _, tt := range tests {
		th, w := wrapLimits(tt.mll)
		if th != tt.wantThreshold || w != tt.wantWidth {
			t.Errorf("wrapLimits(%d) = %d, %d; want %d, %d", tt.mll, th, w, tt.wantThreshold, tt.wantWidth)
		}
	}
}

// ---------------------------------------------------------------------------
// TestScrubRemoteImages - Final pass
// ---------------------------------------------------------------------------

func TestScrubRemoteImages(t *testing.T) {
	t.Parallel()

	in := "a ![x](https://h/x.png) b <img src=\"http://h/y.png\"> c ![ok](images/z.png)\n" +
		"```\n![keep](https://h/code.png)\n```\n"
	want := "a  b  c ![ok](images/z.png)\n```\n![keep](https://h/code.png)\n```\n"

	got := ScrubRemoteImages(in)
	if got != want {
		t.Errorf("ScrubRemoteImages() = %q, want %q", got, want)
	}
	if again := ScrubRemoteImages(got); again != got {
		t.Error("ScrubRemoteImages is not idempotent")
	}
}

func TestScrubRemoteImages_Forms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single-quoted title", "a ![x](https://h/x.png 'T') b\n", "a  b\n"},
		{"parenthesized title", "a ![x](https://h/x.png (T)) b\n", "a  b\n"},
		{"attribute suffix", "a ![x](https://h/x.png){width=50%} b\n", "a {width=50%} b\n"},
		{"unknown trailer", "a ![x](https://h/x.png =100x) b\n", "a  b\n"},
		{"unterminated", "a ![x](https://h/x.png\nnext\n", "a \nnext\n"},
		{"protocol relative", "a ![x](//cdn.h/x.png) b\n", "a  b\n"},
		{
			name:  "shortcut to remote definition",
			input: "![logo]\n\n[logo]: https://h/logo.png\n",
			want:  "\n\n[logo]: https://h/logo.png\n",
		},
		{
			name:  "full reference to remote definition",
			input: "x ![Logo][L] y\n\n[l]: http://h/l.png\n",
			want:  "x  y\n\n[l]: http://h/l.png\n",
		},
		{
			name:  "reference to local definition kept",
			input: "![logo]\n\n[logo]: images/logo.png\n",
			want:  "![logo]\n\n[logo]: images/logo.png\n",
		},
		{
			name:  "inline local image named like a remote reference",
			input: "![logo](images/logo.png)\n\n[logo]: https://h/logo.png\n",
			want:  "![logo](images/logo.png)\n\n[logo]: https://h/logo.png\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ScrubRemoteImages(tt.input)
			if got != tt.want {
				t.Errorf("ScrubRemoteImages(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := ScrubRemoteImages(got); again != got {
				t.Errorf("ScrubRemoteImages is not idempotent on %q", got)
			}
		})
	}
}
