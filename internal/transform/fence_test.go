package transform

// Notes:
// - Fence tables feed lines without their newline, as Split does.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestScanner - Fence transitions
// ---------------------------------------------------------------------------

func TestScanner_Next(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []LineKind
	}{
		{
			name:  "plain fence",
			lines: []string{"text", "```go", "x := 1", "```", "after"},
			want:  []LineKind{LineProse, LineOpen, LineBody, LineClose, LineProse},
		},
		{
			name:  "shorter fence does not close",
			lines: []string{"`````", "```", "`````"},
			want:  []LineKind{LineOpen, LineBody, LineClose},
		},
		{
			name:  "longer fence closes",
			lines: []string{"```", "x", "``````"},
			want:  []LineKind{LineOpen, LineBody, LineClose},
		},
		{
			name:  "other character does not close",
			lines: []string{"~~~", "```", "~~~"},
			want:  []LineKind{LineOpen, LineBody, LineClose},
		},
		{
			name:  "closing fence with trailing text is body",
			lines: []string{"```", "``` not a close", "```"},
			want:  []LineKind{LineOpen, LineBody, LineClose},
		},
		{
			name:  "two backticks are prose",
			lines: []string{"``x``"},
			want:  []LineKind{LineProse},
		},
		{
			name:  "backtick fence info may not hold backticks",
			lines: []string{"``` a`b"},
			want:  []LineKind{LineProse},
		},
		{
			name:  "indented four spaces is prose",
			lines: []string{"    ```"},
			want:  []LineKind{LineProse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var sc Scanner
			for i, line := range tt.lines {
				if got := sc.Next(line); got != tt.want[i] {
					t.Errorf("line %d %q: kind = %d, want %d", i, line, got, tt.want[i])
				}
			}
		})
	}
}

func TestScanner_RawBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		open string
		raw  bool
	}{
		{"```{=latex}", true},
		{"``` {=LaTeX}", true},
		{"```latex", true},
		{"```latexmk", false},
		{"```python", false},
	}

	for _, tt := range tests {
		var sc Scanner
		sc.Next(tt.open)
		if sc.Current == nil || sc.Current.Raw != tt.raw {
			t.Errorf("open %q: raw = %v, want %v", tt.open, sc.Current != nil && sc.Current.Raw, tt.raw)
		}
	}
}

// ---------------------------------------------------------------------------
// TestSplit - Segmentation
// ---------------------------------------------------------------------------

func TestSplit(t *testing.T) {
	t.Parallel()

	in := "intro\n```go\ncode\n```\nmiddle\n~~~~\nunterminated\n"
	segs := Split(in)

	var joined strings.Builder
	var fenced []bool
	for _, s := range segs {
		joined.WriteString(s.Text)
		fenced = append(fenced, s.Fenced)
	}
	if joined.String() != in {
		t.Errorf("segments do not reproduce input: %q", joined.String())
	}
	want := []bool{false, true, false, true}
	if len(fenced) != len(want) {
		t.Fatalf("segments = %d, want %d: %+v", len(fenced), len(want), segs)
	}
	for i := range want {
		if fenced[i] != want[i] {
			t.Errorf("segment %d fenced = %v, want %v", i, fenced[i], want[i])
		}
	}
	if segs[1].Fence.Info != "go" || segs[3].Fence.Delimiter != "~~~~" {
		t.Errorf("fence metadata = %+v / %+v", segs[1].Fence, segs[3].Fence)
	}
}
