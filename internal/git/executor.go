package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 30 * time.Second

// CommandResult holds the complete outcome of one git invocation.
// It is constructed once and never mutated.
type CommandResult struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
}

// Runner executes git with the given arguments.
//
// A non-zero exit code is a normal domain signal carried in the result,
// not an error. Run returns an error only when the subprocess could not
// be started (errors.ErrToolMissing), exceeded its deadline
// (errors.ErrTimeout), or was cut short by the caller's context
// (errors.ErrCancelled).
type Runner interface {
	Run(ctx context.Context, args ...string) (CommandResult, error)
}

// ExecRunner runs git bound to a repository root via `git -C <root>`,
// so results do not depend on the caller's working directory.
type ExecRunner struct {
	repoRoot string
	timeout  time.Duration
}

// NewExecRunner creates a Runner bound to repoRoot with the default timeout.
func NewExecRunner(repoRoot string) *ExecRunner {
	return &ExecRunner{repoRoot: repoRoot, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of the runner using the given timeout.
func (r *ExecRunner) WithTimeout(d time.Duration) *ExecRunner {
	return &ExecRunner{repoRoot: r.repoRoot, timeout: d}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (CommandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fullArgs := append([]string{"-C", r.repoRoot}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("git", "args", strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		// A context-killed subprocess is not a domain signal, even though
		// it surfaces as an ExitError.
		if ctx.Err() == context.DeadlineExceeded {
			return CommandResult{}, errors.Wrapf(errors.ErrTimeout, "git %s", strings.Join(args, " "))
		}
		if ctx.Err() != nil {
			return CommandResult{}, errors.Wrapf(errors.ErrCancelled, "git %s", strings.Join(args, " "))
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			// Ran to completion with a non-zero exit: domain signal.
			res := CommandResult{
				Succeeded: false,
				Stdout:    stdout.String(),
				Stderr:    stderr.String(),
				ExitCode:  exitErr.ExitCode(),
			}
			slog.Debug("git failed", "args", strings.Join(args, " "), "exit", res.ExitCode)
			return res, nil
		}
		return CommandResult{}, errors.Wrap(errors.ErrToolMissing, err.Error())
	}

	return CommandResult{
		Succeeded: true,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  0,
	}, nil
}

// LookupTool reports whether the git binary is on PATH.
func LookupTool() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.ErrToolMissing
	}
	return nil
}

// ResolveRoot returns the repository root for path, or ErrNotRepository.
func ResolveRoot(ctx context.Context, path string) (string, error) {
	runner := &ExecRunner{repoRoot: path, timeout: DefaultTimeout}
	res, err := runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if !res.Succeeded {
		return "", errors.Wrap(errors.ErrNotRepository, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}
