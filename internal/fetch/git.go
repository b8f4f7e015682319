package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-repo2pdf/internal/fileutil"
	"github.com/alnah/go-repo2pdf/internal/process"
)

// CloneTimeout bounds each git command.
const CloneTimeout = 300 * time.Second

// Git clones or refreshes a remote repository under a workspace directory.
type Git struct {
	runner    process.Runner
	url       string
	branch    string
	workspace string
	logger    *slog.Logger
}

// NewGit creates a Git fetcher. logger may be nil.
func NewGit(runner process.Runner, rawURL, branch, workspace string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Git{
		runner:    runner,
		url:       strings.TrimSpace(rawURL),
		branch:    strings.TrimSpace(branch),
		workspace: workspace,
		logger:    logger,
	}
}

// Fetch clones into <workspace>/<name> when absent, otherwise fetches the
// branch and hard-resets onto it. A failed clone removes its directory.
func (g *Git) Fetch(ctx context.Context) (Repo, error) {
	name, err := RepoName(g.url)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	workspace, err := filepath.Abs(g.workspace)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if err := os.MkdirAll(workspace, fileutil.DirPerm); err != nil {
		return Repo{}, fmt.Errorf("%w: creating workspace: %w", ErrFetch, err)
	}
	dir := filepath.Join(workspace, name)

	if fileutil.DirExists(dir) {
		err = g.update(ctx, dir)
	} else {
		err = g.clone(ctx, dir)
	}
	if err != nil {
		return Repo{}, err
	}

	repo := Repo{Dir: dir, Name: name}
	if c, err := ReadCommit(ctx, g.runner, dir); err != nil {
		g.logger.Warn("cannot read commit info", "path", dir, "error", err)
	} else {
		repo.Commit = c
		g.logger.Info("repository ready", "path", dir, "commit", c.ShortSHA, "branch", g.branch)
	}
	return repo, nil
}

func (g *Git) clone(ctx context.Context, dir string) error {
	g.logger.Info("cloning repository", "url", g.url, "branch", g.branch)
	_, err := g.git(ctx, "",
		"clone", "--depth", "1", "--single-branch", "--branch", g.branch,
		"--filter=blob:none", g.url, dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("%w: cloning %s (branch %s): %w", ErrFetch, g.url, g.branch, err)
	}
	return nil
}

func (g *Git) update(ctx context.Context, dir string) error {
	g.logger.Info("updating repository", "path", dir, "branch", g.branch)
	remotes, err := g.git(ctx, dir, "remote")
	if err != nil {
		return fmt.Errorf("%w: listing remotes: %w", ErrFetch, err)
	}
	if strings.TrimSpace(remotes) == "" {
		if _, err := g.git(ctx, dir, "remote", "add", "origin", g.url); err != nil {
			return fmt.Errorf("%w: adding origin: %w", ErrFetch, err)
		}
	}
	if _, err := g.git(ctx, dir, "fetch", "origin", g.branch); err != nil {
		return fmt.Errorf("%w: fetching %s: %w", ErrFetch, g.branch, err)
	}
	if _, err := g.git(ctx, dir, "reset", "--hard", "origin/"+g.branch); err != nil {
		return fmt.Errorf("%w: resetting to origin/%s: %w", ErrFetch, g.branch, err)
	}
	return nil
}

func (g *Git) git(ctx context.Context, dir string, args ...string) (string, error) {
	return runGit(ctx, g.runner, dir, args...)
}

// runGit runs git and folds stderr into the error.
func runGit(ctx context.Context, runner process.Runner, dir string, args ...string) (string, error) {
	res, err := runner.Run(ctx, process.Command{Name: "git", Args: args, Dir: dir, Timeout: CloneTimeout})
	if err != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return res.Stdout, nil
}

var _ Fetcher = (*Git)(nil)
