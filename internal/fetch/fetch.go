package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for fetching.
var (
	ErrFetch      = errors.New("cannot obtain repository")
	ErrInvalidURL = errors.New("invalid repository URL")
)

// fallbackName names repositories whose URL yields nothing better.
const fallbackName = "repository"

// Repo is a checked-out repository ready to walk.
type Repo struct {
	Dir    string  // absolute
	Name   string  // used for the title and output file name
	Commit *Commit // nil when unknown
}

// Fetcher obtains a repository.
type Fetcher interface {
	Fetch(ctx context.Context) (Repo, error)
}

// RepoName extracts the repository name from a clone URL:
// https://host/user/repo.git, git@host:user/repo.git and
// ssh://git@host/user/repo.git all give "repo".
func RepoName(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 || parts[len(parts)-1] == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
		}
		return trimGit(parts[len(parts)-1]), nil
	}
	if err == nil && u.Scheme == "ssh" {
		return lastSegment(u.Path), nil
	}
	if at, colon := strings.Index(rawURL, "@"), strings.LastIndex(rawURL, ":"); at >= 0 && colon > at {
		return lastSegment(rawURL[colon+1:]), nil
	}
	return lastSegment(rawURL), nil
}

func lastSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if name := trimGit(p); name != "" {
		return name
	}
	return fallbackName
}

func trimGit(s string) string {
	return strings.TrimSuffix(s, ".git")
}

// Local serves a directory on disk without touching it.
type Local struct {
	Path string
}

// Fetch checks that the directory exists and names it after its base name.
func (l Local) Fetch(_ context.Context) (Repo, error) {
	dir, err := filepath.Abs(l.Path)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if !info.IsDir() {
		return Repo{}, fmt.Errorf("%w: %s is not a directory", ErrFetch, dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		name = fallbackName
	}
	return Repo{Dir: dir, Name: name}, nil
}

var _ Fetcher = Local{}
