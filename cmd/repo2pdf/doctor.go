package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/hints"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// versionTimeout bounds each "<tool> --version" probe.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engine   string     `json:"engine"`
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one external program.
type toolInfo struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	problem  string
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// toolSpec names a program and whether the selected engine needs it.
type toolSpec struct {
	name     string
	required bool
	chrome   bool
}

// toolsFor lists the programs checked for engine. git is always required;
// local repositories work without it but most configs clone.
func toolsFor(engine string) []toolSpec {
	latex := engine != config.EngineChrome
	return []toolSpec{
		{name: "git", required: true},
		{name: "pandoc", required: latex},
		{name: "xelatex", required: latex},
		{name: "inkscape"},
		{name: "chrome", required: !latex, chrome: true},
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print the report as JSON")
	engine := fs.String("engine", "", "engine to check for: xelatex, chrome")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	if *engine == "" {
		*engine = loadEnvConfig(env.Getenv).Engine
	}
	if *engine == "" {
		*engine = config.EngineXeLaTeX
	}

	result := runDoctor(ctx, env, *engine)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if ctx.Err() != nil {
		return ExitInterrupted
	}
	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. Tool probes run concurrently.
func runDoctor(ctx context.Context, env *Environment, engine string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Engine: engine,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	specs := toolsFor(engine)
	result.Tools = make([]toolInfo, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			result.Tools[i] = checkTool(gctx, env, spec, result.Env.BrowserBin)
			return gctx.Err()
		})
	}
	_ = g.Wait()

	for _, tool := range result.Tools {
		if tool.problem == "" {
			continue
		}
		if tool.Required && !tool.Found {
			result.Errors = append(result.Errors, tool.problem)
		} else {
			result.Warnings = append(result.Warnings, tool.problem)
		}
	}

	checkEnvironment(env, result)
	checkSystem(env, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkTool locates one program and asks it for its version.
func checkTool(ctx context.Context, env *Environment, spec toolSpec, browserBin string) toolInfo {
	info := toolInfo{Name: spec.name, Required: spec.required}

	var path string
	switch {
	case spec.chrome && browserBin != "":
		if _, err := env.Stat(browserBin); err != nil {
			info.problem = fmt.Sprintf("ROD_BROWSER_BIN points to a missing file: %s", browserBin)
			return info
		}
		path = browserBin
	case spec.chrome:
		p, ok := env.LookChrome()
		if !ok {
			info.problem = "Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN"
			return info
		}
		path = p
	default:
		p, ok := env.LookPath(spec.name)
		if !ok {
			info.problem = spec.name + " not found: " + hints.InstallHint(spec.name)
			return info
		}
		path = p
	}
	info.Found = true
	info.Path = path

	res, err := env.Runner.Run(ctx, process.Command{
		Name:    path,
		Args:    []string{"--version"},
		Timeout: versionTimeout,
	})
	if err != nil {
		if ctx.Err() == nil {
			info.problem = fmt.Sprintf("could not get %s version: %v", spec.name, err)
		}
		return info
	}
	info.Version = firstLine(res.Stdout)
	return info
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(env *Environment, result *doctorResult) {
	p := env.probe()
	result.Env.Container, result.Env.ContainerHint = p.Container()
	result.Env.CI = p.InCI()

	// Only the browser sandbox cares about containers.
	if result.Engine == config.EngineChrome && p.NeedsNoSandbox() {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkSystem verifies the temp directory is writable.
func checkSystem(env *Environment, result *doctorResult) {
	tmpDir := env.TempDir()
	_, cleanup, err := fileutil.WriteTempFile(tmpDir, []byte("test"), "probe")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "repo2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Tools (engine: %s)\n", r.Engine)
	for _, t := range r.Tools {
		switch {
		case t.Found && t.Version != "":
			fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", t.Name, t.Version, t.Path)
		case t.Found:
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		case t.Required:
			fmt.Fprintf(w, "  [ERROR] %s: not found\n", t.Name)
		default:
			fmt.Fprintf(w, "  [WARN] %s: not found (optional)\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
