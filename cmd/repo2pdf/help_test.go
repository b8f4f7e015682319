package main

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintConvertUsage - every flag is documented
// ---------------------------------------------------------------------------

func TestPrintConvertUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	out := buf.String()

	for _, f := range extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})) {
		if !strings.Contains(out, "--"+f.Long) {
			t.Errorf("convert help does not mention --%s", f.Long)
		}
	}
	for _, name := range knownEnvVarNames() {
		if !strings.Contains(out, name) {
			t.Errorf("convert help does not mention %s", name)
		}
	}
}

// knownEnvVarNames lists the variables convert reads. REPO2PDF_CONTAINER
// only matters to doctor.
func knownEnvVarNames() []string {
	var names []string
	for name := range knownEnvVars {
		if name != "REPO2PDF_CONTAINER" {
			names = append(names, name)
		}
	}
	return names
}

// ---------------------------------------------------------------------------
// TestRunHelp - per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{nil, ExitSuccess, "Commands:", ""},
		{[]string{"convert"}, ExitSuccess, "Usage: repo2pdf convert", ""},
		{[]string{"doctor"}, ExitSuccess, "Usage: repo2pdf doctor", ""},
		{[]string{"completion"}, ExitSuccess, "Usage: repo2pdf completion", ""},
		{[]string{"version"}, ExitSuccess, "Usage: repo2pdf version", ""},
		{[]string{"help"}, ExitSuccess, "Usage: repo2pdf help", ""},
		{[]string{"render"}, ExitUsage, "", "Unknown command: render"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			te := newTestEnv(t)
			if code := runHelp(tt.args, te.Environment); code != tt.wantCode {
				t.Errorf("runHelp() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", te.stdout, tt.wantStdout)
			}
			if !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", te.stderr, tt.wantStderr)
			}
		})
	}
}
