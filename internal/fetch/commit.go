package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/process"
)

// Commit describes the checked-out HEAD.
type Commit struct {
	SHA      string
	ShortSHA string
	Author   string
	Date     time.Time
	Subject  string
	Branch   string
}

// commitFormat separates fields with NUL; the subject comes last.
const commitFormat = "--format=%H%x00%an <%ae>%x00%cI%x00%s"

// ReadCommit reads HEAD's metadata with git log and rev-parse.
func ReadCommit(ctx context.Context, runner process.Runner, dir string) (*Commit, error) {
	out, err := runGit(ctx, runner, dir, "log", "-1", commitFormat)
	if err != nil {
		return nil, err
	}
	fields := strings.SplitN(strings.TrimRight(out, "\n"), "\x00", 4)
	if len(fields) != 4 || len(fields[0]) < 7 {
		return nil, fmt.Errorf("unexpected git log output %q", out)
	}
	date, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		return nil, fmt.Errorf("parsing commit date: %w", err)
	}

	c := &Commit{
		SHA:      fields[0],
		ShortSHA: fields[0][:7],
		Author:   fields[1],
		Date:     date,
		Subject:  fields[3],
	}
	if branch, err := runGit(ctx, runner, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		c.Branch = strings.TrimSpace(branch)
	}
	return c, nil
}
