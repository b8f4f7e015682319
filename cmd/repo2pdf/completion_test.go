package main

// Notes:
// - Scripts are checked for content markers only; they are not run in the
//   target shells.
// - getCommands is checked against the live convert FlagSet so a new flag
//   cannot be forgotten in completion.

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - per-shell scripts
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{
			"_repo2pdf_completions",
			"complete -F _repo2pdf_completions repo2pdf",
			"convert doctor completion version help",
			"--engine)",
			`compgen -W "xelatex chrome"`,
			"--output|-o)",
			"compgen -d",
			"--keep-temp",
		}},
		{ShellZsh, []string{
			"#compdef repo2pdf",
			"_describe 'command' commands",
			"_arguments",
			"'doctor:Check external tools and the environment'",
			"{-t,--template}",
			":engine:(xelatex chrome)",
			"_files -g '(*.yaml|*.yml)'",
			"_files -/",
		}},
		{ShellFish, []string{
			"complete -c repo2pdf",
			"function __fish_repo2pdf_needs_command",
			"__fish_repo2pdf_using_command convert' -l config -s c",
			"-l engine -x -a 'xelatex chrome'",
			"-l json",
		}},
		{ShellPowerShell, []string{
			"Register-ArgumentCompleter -Native -CommandName repo2pdf",
			"CompletionResult",
			"'convert' {",
			"--asset-path",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"", "tcsh", "BASH"} {
		var buf bytes.Buffer
		err := GenerateCompletion(&buf, shell)
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", shell, err)
		}
		if buf.Len() != 0 {
			t.Errorf("GenerateCompletion(%q) wrote output", shell)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - registry built from the FlagSet
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	var names []string
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	if !slices.Equal(names, []string{"convert", "doctor", "completion", "version", "help"}) {
		t.Errorf("commands = %v", names)
	}

	byName := map[string]flagDef{}
	for _, f := range cmds[0].Flags {
		byName[f.Long] = f
	}
	tests := []struct {
		long  string
		short string
		typ   flagType
	}{
		{"config", "c", flagFile},
		{"template", "t", flagEnum},
		{"engine", "", flagEnum},
		{"output", "o", flagDir},
		{"asset-path", "", flagDir},
		{"quiet", "q", flagBool},
		{"verbose", "v", flagBool},
		{"log-json", "", flagBool},
		{"html", "", flagBool},
		{"keep-temp", "", flagBool},
	}
	if len(byName) != len(tests) {
		t.Errorf("convert has %d flags, want %d", len(byName), len(tests))
	}
	for _, tt := range tests {
		f, ok := byName[tt.long]
		if !ok {
			t.Errorf("flag --%s missing", tt.long)
			continue
		}
		if f.Short != tt.short || f.Type != tt.typ {
			t.Errorf("--%s: short=%q type=%d, want %q %d", tt.long, f.Short, f.Type, tt.short, tt.typ)
		}
	}
	if tmpl := byName["template"]; !slices.Contains(tmpl.Values, "kindle") || !slices.Contains(tmpl.Values, "technical") {
		t.Errorf("template values = %v", tmpl.Values)
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no shell prints usage", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := runCompletion(nil, &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Usage: repo2pdf completion <shell>") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("valid shell", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := runCompletion([]string{"fish"}, &buf); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "complete -c repo2pdf") {
			t.Error("fish script not written")
		}
	})

	t.Run("invalid shell", func(t *testing.T) {
		t.Parallel()
		err := runCompletion([]string{"ksh"}, &bytes.Buffer{})
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("error = %v", err)
		}
	})
}
