package imageconv

// Notes:
// - PrepareSVG is tested on its output markup with substring checks; the
//   exact attribute order of the rebuilt root tag is an implementation detail
//   except that existing attributes keep their position.
// - Percent lengths resolve against the 1600x1200 parent viewport.

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrepareSVG - Dimension repair and rejection rules
// ---------------------------------------------------------------------------

func TestPrepareSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantWidth  string
		wantHeight string
		wantPixels [2]float64
	}{
		{
			name:       "explicit pixel size kept",
			input:      `<svg xmlns="http://www.w3.org/2000/svg" width="120px" height="40px"><rect/></svg>`,
			wantWidth:  "120px",
			wantHeight: "40px",
			wantPixels: [2]float64{120, 40},
		},
		{
			name:       "unitless size gets px",
			input:      `<svg width="120" height="40"><rect/></svg>`,
			wantWidth:  "120px",
			wantHeight: "40px",
			wantPixels: [2]float64{120, 40},
		},
		{
			name:       "size derived from viewBox",
			input:      `<svg viewBox="0 0 24 16"><path d="M0 0h24v16z"/></svg>`,
			wantWidth:  "24px",
			wantHeight: "16px",
			wantPixels: [2]float64{24, 16},
		},
		{
			name:       "comma separated viewBox",
			input:      `<svg viewBox="0,0,30,10"><rect/></svg>`,
			wantWidth:  "30px",
			wantHeight: "10px",
			wantPixels: [2]float64{30, 10},
		},
		{
			name:       "no dimensions defaults to 800x600",
			input:      `<svg><rect/></svg>`,
			wantWidth:  "800px",
			wantHeight: "600px",
			wantPixels: [2]float64{800, 600},
		},
		{
			name:       "xml prolog stripped",
			input:      `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<svg width="5" height="5"><rect/></svg>`,
			wantWidth:  "5px",
			wantHeight: "5px",
			wantPixels: [2]float64{5, 5},
		},
		{
			name:       "percent resolves against parent viewport",
			input:      `<svg width="50%" height="25%"><rect/></svg>`,
			wantWidth:  "50%",
			wantHeight: "25%",
			wantPixels: [2]float64{800, 300},
		},
		{
			name:       "inches",
			input:      `<svg width="1in" height="0.5in"><rect/></svg>`,
			wantWidth:  "1in",
			wantHeight: "0.5in",
			wantPixels: [2]float64{96, 48},
		},
		{
			name:    "zero width",
			input:   `<svg width="0" height="10"><rect/></svg>`,
			wantErr: ErrZeroSize,
		},
		{
			name:    "zero height with px",
			input:   `<svg width="10" height="0px"><rect/></svg>`,
			wantErr: ErrZeroSize,
		},
		{
			name:    "zero viewBox",
			input:   `<svg viewBox="0 0 0 10"><rect/></svg>`,
			wantErr: ErrZeroSize,
		},
		{
			name:    "symbol sheet",
			input:   `<svg><symbol id="a"><path d="M0 0"/></symbol></svg>`,
			wantErr: ErrIconSheet,
		},
		{
			name:    "defs without use",
			input:   `<svg><defs><path id="a" d="M0 0"/></defs></svg>`,
			wantErr: ErrIconSheet,
		},
		{
			name:       "defs with use is drawable",
			input:      `<svg width="4" height="4"><defs><path id="a" d="M0 0"/></defs><use href="#a"/></svg>`,
			wantWidth:  "4px",
			wantHeight: "4px",
			wantPixels: [2]float64{4, 4},
		},
		{
			name:    "malformed",
			input:   `<svg width="4"><rect></svg>`,
			wantErr: ErrMalformedSVG,
		},
		{
			name:    "not svg",
			input:   `<html><body/></html>`,
			wantErr: ErrNotSVG,
		},
		{
			name:    "unparseable length",
			input:   `<svg width="auto" height="10"><rect/></svg>`,
			wantErr: ErrInvalidLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PrepareSVG(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PrepareSVG() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrepareSVG() error = %v", err)
			}
			if got.Width != tt.wantWidth || got.Height != tt.wantHeight {
				t.Errorf("size = %s x %s, want %s x %s", got.Width, got.Height, tt.wantWidth, tt.wantHeight)
			}
			if got.PixelWidth != tt.wantPixels[0] || got.PixelHeight != tt.wantPixels[1] {
				t.Errorf("pixels = %v x %v, want %v", got.PixelWidth, got.PixelHeight, tt.wantPixels)
			}
			if !strings.Contains(got.Markup, `width="`+tt.wantWidth+`"`) ||
				!strings.Contains(got.Markup, `height="`+tt.wantHeight+`"`) {
				t.Errorf("markup root not rewritten: %s", got.Markup)
			}
			if strings.Contains(got.Markup, "<?xml") {
				t.Error("markup still has an XML prolog")
			}
		})
	}
}

func TestPrepareSVG_PreservesContent(t *testing.T) {
	t.Parallel()

	in := `<!-- logo --><svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 8 8" class="a&amp;b"><circle r="4"/></svg>`
	got, err := PrepareSVG(in)
	if err != nil {
		t.Fatalf("PrepareSVG() error = %v", err)
	}

	for _, want := range []string{
		"<!-- logo -->",
		`xmlns:xlink="http://www.w3.org/1999/xlink"`,
		`viewBox="0 0 8 8"`,
		`class="a&amp;b"`,
		`<circle r="4"/></svg>`,
	} {
		if !strings.Contains(got.Markup, want) {
			t.Errorf("markup missing %q:\n%s", want, got.Markup)
		}
	}
	if err := checkWellFormed(got.Markup); err != nil {
		t.Errorf("rewritten markup is not well-formed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestIsValidSVG - Sniffing inline markup
// ---------------------------------------------------------------------------

func TestIsValidSVG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"width", `<svg width="10"></svg>`, true},
		{"height", `<svg height="10"></svg>`, true},
		{"viewBox", `<svg viewBox="0 0 1 1"></svg>`, true},
		{"nested in html", `<p>x</p><div><svg viewBox="0 0 1 1"/></div>`, true},
		{"no sizing attribute", `<svg class="x"></svg>`, false},
		{"empty width", `<svg width=""></svg>`, false},
		{"no svg", `<div>plain</div>`, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValidSVG(tt.input); got != tt.want {
				t.Errorf("IsValidSVG(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
