// Package process runs external tools (git, pandoc, inkscape) and cleans up
// their process trees.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Sentinel errors for command execution.
var (
	ErrNotFound    = errors.New("executable not found")
	ErrTimeout     = errors.New("command timed out")
	ErrExitStatus  = errors.New("command failed")
	ErrEmptyBinary = errors.New("command name cannot be empty")
)

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = 5 * time.Second

// Command describes one invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string        // working directory; empty = current
	Timeout time.Duration // zero = no timeout beyond ctx
}

// String renders the command line for logs.
func (c Command) String() string {
	var b bytes.Buffer
	b.WriteString(c.Name)
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

// Result holds captured output. ExitCode is -1 when the process never exited
// normally (not started, killed, timed out).
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner implements Runner using os/exec. The child runs in its own
// process group, killed as a whole on timeout or cancellation.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it. A non-zero exit returns ErrExitStatus
// together with the captured output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	res := Result{ExitCode: -1}
	if cmd.Name == "" {
		return res, ErrEmptyBinary
	}

	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...) // #nosec G204 -- names are fixed tool binaries
	c.Dir = cmd.Dir
	setProcessGroup(c)
	c.Cancel = func() error {
		if c.Process != nil {
			KillProcessGroup(c.Process.Pid)
		}
		return nil
	}
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if c.ProcessState != nil && c.ProcessState.Exited() {
		res.ExitCode = c.ProcessState.ExitCode()
	}

	if err == nil {
		return res, nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound):
		return res, fmt.Errorf("%w: %s", ErrNotFound, cmd.Name)
	case ctx.Err() != nil:
		return res, ctx.Err()
	case runCtx.Err() != nil:
		return res, fmt.Errorf("%w: %s after %s", ErrTimeout, cmd.Name, cmd.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, fmt.Errorf("%w: %s exited with code %d", ErrExitStatus, cmd.Name, res.ExitCode)
	}
	return res, fmt.Errorf("running %s: %w", cmd.Name, err)
}

// LookPath reports the resolved path of an executable, if on PATH.
func LookPath(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// Compile-time interface check.
var _ Runner = (*ExecRunner)(nil)
