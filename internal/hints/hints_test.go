package hints

// Notes:
// - Every environment is a fake Probe, so all tests run in parallel and
//   never touch the process environment.

import (
	"io/fs"
	"os"
	"strings"
	"testing"
)

// probe builds a Probe over vars; files lists paths Stat finds.
func probe(vars map[string]string, files ...string) Probe {
	return Probe{
		Getenv: func(k string) string { return vars[k] },
		Stat: func(name string) (os.FileInfo, error) {
			for _, f := range files {
				if f == name {
					return nil, nil
				}
			}
			return nil, fs.ErrNotExist
		},
	}
}

// ---------------------------------------------------------------------------
// TestProbe_Container - container detection signals
// ---------------------------------------------------------------------------

func TestProbe_Container(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		p        Probe
		want     bool
		wantHint string
	}{
		{"nothing", probe(nil), false, ""},
		{"forced", probe(map[string]string{"REPO2PDF_CONTAINER": "1"}), true, "REPO2PDF_CONTAINER=1"},
		{"forced needs 1", probe(map[string]string{"REPO2PDF_CONTAINER": "yes"}), false, ""},
		{"dockerenv", probe(nil, "/.dockerenv"), true, "/.dockerenv"},
		{"podman", probe(map[string]string{"container": "podman"}), true, "container=podman"},
		{"kubernetes", probe(map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}), true, "KUBERNETES_SERVICE_HOST"},
		{"forced wins", probe(map[string]string{"REPO2PDF_CONTAINER": "1"}, "/.dockerenv"), true, "REPO2PDF_CONTAINER=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, hint := tt.p.Container()
			if got != tt.want || hint != tt.wantHint {
				t.Errorf("Container() = (%v, %q), want (%v, %q)", got, hint, tt.want, tt.wantHint)
			}
		})
	}
}

func TestProbe_InCI(t *testing.T) {
	t.Parallel()

	if probe(nil).InCI() {
		t.Error("InCI() = true with no variables")
	}
	for _, v := range ciVars {
		if !probe(map[string]string{v: "true"}).InCI() {
			t.Errorf("InCI() = false with %s set", v)
		}
	}
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - rod variable suggestions
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		p           Probe
		wantSandbox bool
		wantBin     bool
	}{
		{"ci", probe(map[string]string{"CI": "true"}), true, true},
		{"docker", probe(nil, "/.dockerenv"), true, true},
		{"sandbox already off", probe(map[string]string{"ROD_NO_SANDBOX": "1"}, "/.dockerenv"), false, true},
		{"browser bin set", probe(map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chrome"}), false, false},
		{"all configured", probe(map[string]string{"CI": "1", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": "/c"}), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hint := ForBrowserConnect(tt.p)
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("sandbox suggestion = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin suggestion = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !tt.wantSandbox && !tt.wantBin && hint != "" {
				t.Errorf("ForBrowserConnect() = %q, want empty", hint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints - fixed suggestions
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForConfigNotFound(nil); !strings.Contains(hint, "REPO2PDF_CONFIG") {
		t.Errorf("ForConfigNotFound(nil) = %q", hint)
	}
	hint := ForConfigNotFound([]string{"./x.yaml", "/home/u/.config/go-repo2pdf/x.yaml"})
	if !strings.Contains(hint, "create /home/u/.config/go-repo2pdf/x.yaml") {
		t.Errorf("ForConfigNotFound() = %q, want the user path", hint)
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForTemplateNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	hint := ForTemplateNotFound([]string{"default", "kindle", "technical"})
	if !strings.Contains(hint, "default, kindle, technical") {
		t.Errorf("expected template list, got %q", hint)
	}
}

func TestForMissingTool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool     string
		contains string
	}{
		{"pandoc", "pandoc.org"},
		{"xelatex", "TeX"},
		{"git", "git-scm.com"},
		{"inkscape", "SVG"},
		{"chromium", "chromium and make sure it is on PATH"},
	}

	for _, tt := range tests {
		hint := ForMissingTool(tt.tool)
		if !strings.Contains(hint, tt.contains) {
			t.Errorf("ForMissingTool(%q) = %q, want containing %q", tt.tool, hint, tt.contains)
		}
		if InstallHint(tt.tool) != strings.TrimPrefix(hint, "\n  hint: ") {
			t.Errorf("InstallHint(%q) and ForMissingTool disagree", tt.tool)
		}
	}
}

func TestForTypesetFailure(t *testing.T) {
	t.Parallel()

	if hint := ForTypesetFailure("/tmp/work"); !strings.Contains(hint, "/tmp/work/temp.md") {
		t.Errorf("expected temp.md path, got %q", hint)
	}
	if hint := ForTypesetFailure(""); !strings.Contains(hint, "-v") {
		t.Errorf("expected -v suggestion, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForMissingTool("pandoc"),
		ForTypesetFailure("x"),
		ForConfigNotFound(nil),
		ForBrowserConnect(probe(nil)),
	} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty hints should format to empty strings")
	}
}
