package main

import (
	"context"
	"errors"
	"os"
	"strings"

	repo2pdf "github.com/alnah/go-repo2pdf"
	"github.com/alnah/go-repo2pdf/internal/assemble"
	"github.com/alnah/go-repo2pdf/internal/assets"
	"github.com/alnah/go-repo2pdf/internal/config"
	"github.com/alnah/go-repo2pdf/internal/dateutil"
	"github.com/alnah/go-repo2pdf/internal/fetch"
	"github.com/alnah/go-repo2pdf/internal/hints"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// Exit codes for the repo2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0   // PDF written
	ExitGeneral     = 1   // General/unexpected error
	ExitUsage       = 2   // Invalid flags or config
	ExitIO          = 3   // Working directories, files
	ExitFetch       = 4   // git clone/update failed
	ExitTypeset     = 5   // pandoc, xelatex or the browser failed
	ExitInterrupted = 130 // SIGINT/SIGTERM
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess

	// Checked first: a cancelled clone is also a fetch error.
	case errors.Is(err, context.Canceled):
		return ExitInterrupted

	case errors.Is(err, fetch.ErrFetch):
		return ExitFetch

	case errors.Is(err, repo2pdf.ErrTypeset),
		errors.Is(err, repo2pdf.ErrBrowserConnect),
		errors.Is(err, repo2pdf.ErrPageCreate),
		errors.Is(err, repo2pdf.ErrPageLoad),
		errors.Is(err, repo2pdf.ErrPDFGeneration):
		return ExitTypeset

	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrEmptyConfigName),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrConfigInvalid),
		errors.Is(err, config.ErrFieldTooLong),
		errors.Is(err, config.ErrUnknownPreset),
		errors.Is(err, config.ErrInvalidSize),
		errors.Is(err, dateutil.ErrInvalidDateFormat),
		errors.Is(err, repo2pdf.ErrNilConfig),
		errors.Is(err, repo2pdf.ErrInvalidAssets),
		errors.Is(err, repo2pdf.ErrTemplateMissing),
		errors.Is(err, assemble.ErrInvalidLayout),
		errors.Is(err, ErrNoConfig),
		errors.Is(err, ErrUsage),
		errors.Is(err, ErrUnsupportedShell):
		return ExitUsage

	case errors.Is(err, repo2pdf.ErrWorkspace),
		errors.Is(err, repo2pdf.ErrAssemble),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return ExitIO
	}
	return ExitGeneral
}

// hintedError carries a hint computed where more context was at hand.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

// hintFor returns a one-line suggestion for err, or "". p is consulted
// only for browser launch failures.
func hintFor(err error, p hints.Probe) string {
	var he *hintedError
	switch {
	case errors.As(err, &he):
		return he.hint
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, process.ErrNotFound):
		return hints.ForMissingTool(missingTool(err))
	case errors.Is(err, process.ErrTimeout):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("repo2pdf"))
	case errors.Is(err, repo2pdf.ErrTemplateMissing):
		return hints.ForTemplateNotFound(assets.TemplateSetNames())
	case errors.Is(err, repo2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(p)
	case errors.Is(err, repo2pdf.ErrTypeset):
		return hints.ForTypesetFailure("")
	case errors.Is(err, repo2pdf.ErrWorkspace):
		return hints.ForOutputDirectory()
	}
	return ""
}

// missingTool reads the executable name from "executable not found: NAME".
func missingTool(err error) string {
	msg := err.Error()
	marker := process.ErrNotFound.Error() + ": "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	name := msg[i+len(marker):]
	if j := strings.IndexAny(name, " :\n"); j >= 0 {
		name = name[:j]
	}
	return name
}
