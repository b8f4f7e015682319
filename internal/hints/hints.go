// Package hints builds the "hint:" lines printed under CLI errors.
// Every hint is formatted as "\n  hint: <text>" so it can be appended to
// the error message as is.
package hints

import (
	"os"
	"strings"
)

// ciVars are set by the CI systems repo2pdf is commonly run on.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// Probe is the part of the process environment hints look at.
// Both fields must be set.
type Probe struct {
	Getenv func(string) string
	Stat   func(string) (os.FileInfo, error)
}

// OSProbe reads the real environment.
func OSProbe() Probe {
	return Probe{Getenv: os.Getenv, Stat: os.Stat}
}

// InCI reports whether a known CI variable is set.
func (p Probe) InCI() bool {
	for _, v := range ciVars {
		if p.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Container reports whether the process looks containerized and which
// signal said so. REPO2PDF_CONTAINER=1 forces detection.
func (p Probe) Container() (bool, string) {
	if p.Getenv("REPO2PDF_CONTAINER") == "1" {
		return true, "REPO2PDF_CONTAINER=1"
	}
	if _, err := p.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := p.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if p.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// NeedsNoSandbox reports whether Chrome will likely refuse to start
// because it runs in a container or CI without ROD_NO_SANDBOX=1.
func (p Probe) NeedsNoSandbox() bool {
	if p.Getenv("ROD_NO_SANDBOX") == "1" {
		return false
	}
	inContainer, _ := p.Container()
	return inContainer || p.InCI()
}

// ForBrowserConnect suggests the rod variables that usually fix a browser
// that will not launch.
func ForBrowserConnect(p Probe) string {
	var hints []string
	if p.NeedsNoSandbox() {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if p.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return formatHints(hints)
}

// ForTimeout is shown when a typesetter or git exceeds its deadline.
func ForTimeout() string {
	return format("for large repositories, add ignores or enable split_large_files")
}

// ForConfigNotFound suggests --config, or creating the first user config
// location among searched.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml or set REPO2PDF_CONFIG"
	for _, p := range searched {
		if strings.Contains(p, "go-repo2pdf") {
			hint += ", or create " + p
			break
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check that output_dir and workspace_dir are writable")
}

// ForTemplateNotFound lists the template names that do exist.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

var toolInstall = map[string]string{
	"git":      "install git (https://git-scm.com/downloads)",
	"pandoc":   "install pandoc (https://pandoc.org/installing.html)",
	"xelatex":  "install a TeX distribution with XeLaTeX (TeX Live, MacTeX or MiKTeX)",
	"inkscape": "install inkscape for SVG files the built-in rasterizer cannot draw",
}

// InstallHint is the bare install suggestion for an executable.
func InstallHint(name string) string {
	if s, ok := toolInstall[name]; ok {
		return s
	}
	return "install " + name + " and make sure it is on PATH"
}

// ForMissingTool returns an install hint for a required executable.
func ForMissingTool(name string) string {
	return format(InstallHint(name))
}

// ForTypesetFailure points at the kept intermediate files in tempDir.
func ForTypesetFailure(tempDir string) string {
	if tempDir == "" {
		return format("rerun with -v to see the typesetter output")
	}
	return format("inspect " + tempDir + "/temp.md and header.tex; rerun with -v for details")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
