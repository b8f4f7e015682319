package typeset

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/process"
)

// Timeout bounds one pandoc run.
const Timeout = 600 * time.Second

// TOCDepth is the deepest heading level listed in the table of contents.
const TOCDepth = 2

// Today lets LaTeX print the compile date.
const Today = `\today`

// Job describes one pandoc invocation. Paths may be relative to TempDir.
type Job struct {
	Markdown     string
	Output       string
	DefaultsFile string
	Title        string
	Subtitle     string // optional, e.g. "main @ 0123456"
	Date         string // "" means Today; anything else is printed literally
	TempDir      string
	RepoDir      string
}

// Command builds the pandoc command for job. It runs inside TempDir so
// images/ references resolve; the repository is a second resource path.
// -V values reach the LaTeX template unescaped, so title, subtitle and
// date are escaped here.
func Command(job Job) process.Command {
	date := Today
	if job.Date != "" {
		date = EscapeLaTeX(job.Date)
	}
	args := []string{
		job.Markdown,
		"-o", job.Output,
		"--defaults", job.DefaultsFile,
		"--toc",
		"--toc-depth=" + strconv.Itoa(TOCDepth),
		"-V", "title=" + EscapeLaTeX(job.Title),
		"-V", "date=" + date,
	}
	if job.Subtitle != "" {
		args = append(args, "-V", "subtitle="+EscapeLaTeX(job.Subtitle))
	}
	resourcePath := strings.Join([]string{job.TempDir, job.RepoDir}, string(filepath.ListSeparator))
	args = append(args, "--resource-path", resourcePath)

	return process.Command{Name: "pandoc", Args: args, Dir: job.TempDir, Timeout: Timeout}
}
