package assets

import (
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{
			name:      "default style exists",
			styleName: "default",
		},
		{
			name:      "technical style exists",
			styleName: "technical",
		},
		{
			name:      "nonexistent style returns ErrStyleNotFound",
			styleName: "nonexistent",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "path traversal rejected",
			styleName: "../default",
			wantErr:   ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, "font-family") {
				t.Errorf("LoadStyle(%q) missing font-family rule", tt.styleName)
			}
		})
	}
}

func TestLoadTemplateSet(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"default", "technical", "kindle"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ts, err := LoadTemplateSet(name)
			if err != nil {
				t.Fatalf("LoadTemplateSet(%q) error = %v", name, err)
			}
			if ts.Name != name {
				t.Errorf("Name = %q, want %q", ts.Name, name)
			}
			for _, want := range []string{`\emojiimg`, "<<.Title>>", "<<range .EmojiFonts>>", "CodeBlock"} {
				if !strings.Contains(ts.Header, want) {
					t.Errorf("Header missing %q", want)
				}
			}
			if !strings.Contains(ts.Layout, "sections") {
				t.Error("Layout missing sections key")
			}
		})
	}

	t.Run("nonexistent", func(t *testing.T) {
		t.Parallel()

		_, err := LoadTemplateSet("nonexistent")
		if !errors.Is(err, ErrTemplateSetNotFound) {
			t.Errorf("LoadTemplateSet() error = %v, want ErrTemplateSetNotFound", err)
		}
	})
}

func TestTemplateSetNames(t *testing.T) {
	t.Parallel()

	got := TemplateSetNames()
	want := []string{"default", "kindle", "technical"}
	if !slices.Equal(got, want) {
		t.Errorf("TemplateSetNames() = %v, want %v", got, want)
	}
	for _, name := range got {
		if _, err := LoadTemplateSet(name); err != nil {
			t.Errorf("listed set %q does not load: %v", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName - names usable as a file or directory component
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	valid := []string{"default", "kindle7", "my-style", "my_style", "MyStyle"}
	for _, name := range valid {
		if err := ValidateAssetName(name); err != nil {
			t.Errorf("ValidateAssetName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "..", "../default", "a/b", `a\b`, "style.css", ".hidden", "name with space", "nul\x00"}
	for _, name := range invalid {
		err := ValidateAssetName(name)
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", name, err)
		}
	}

	if err := ValidateAssetName(""); !strings.Contains(err.Error(), "empty name") {
		t.Errorf("empty name error = %q", err)
	}
}

// ---------------------------------------------------------------------------
// TestReadTemplateSet - file presence classification
// ---------------------------------------------------------------------------

func TestReadTemplateSet(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("disk on fire")
	tests := []struct {
		name    string
		files   map[string]error // nil error = present
		wantErr error
	}{
		{"complete", map[string]error{HeaderFile: nil, LayoutFile: nil}, nil},
		{"both missing", map[string]error{HeaderFile: fs.ErrNotExist, LayoutFile: fs.ErrNotExist}, ErrTemplateSetNotFound},
		{"header missing", map[string]error{HeaderFile: fs.ErrNotExist, LayoutFile: nil}, ErrIncompleteTemplateSet},
		{"layout missing", map[string]error{HeaderFile: nil, LayoutFile: fs.ErrNotExist}, ErrIncompleteTemplateSet},
		{"read failure wins over missing", map[string]error{HeaderFile: ioErr, LayoutFile: fs.ErrNotExist}, ErrAssetRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts, err := readTemplateSet("demo", func(file string) ([]byte, error) {
				if err := tt.files[file]; err != nil {
					return nil, err
				}
				return []byte(file), nil
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ts.Header != HeaderFile || ts.Layout != LayoutFile || ts.Name != "demo" {
				t.Errorf("set = %+v", ts)
			}
		})
	}
}
