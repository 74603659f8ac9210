// Package errors defines the error taxonomy shared across gitmate.
//
// Sentinel errors cover the fatal startup conditions and the recoverable
// per-operation conditions; CommandError carries the full context of a
// failed git invocation so callers can surface stderr verbatim.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrToolMissing indicates the git binary could not be found. Fatal at startup.
	ErrToolMissing = errors.New("git executable not found")

	// ErrNotRepository indicates the target path is not a git repository. Fatal at startup.
	ErrNotRepository = errors.New("not a git repository")

	// ErrTimeout indicates a git subprocess exceeded its deadline.
	ErrTimeout = errors.New("git command timed out")

	// ErrBusy indicates an operation was rejected because the same target
	// already has a pending operation.
	ErrBusy = errors.New("operation already in progress for this target")

	// ErrCancelled indicates the operator declined a confirmation prompt.
	// It is a normal outcome, not a fault.
	ErrCancelled = errors.New("operation cancelled")

	// ErrParse indicates a parser produced zero records from non-empty output.
	ErrParse = errors.New("unparseable git output")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// CommandError represents a git command that ran to completion with a
// non-zero exit code. Stderr is preserved verbatim for the operator.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed (exit %d)", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

// NewCommandError creates a CommandError for the given invocation.
func NewCommandError(args []string, stderr string, exitCode int) *CommandError {
	return &CommandError{Args: args, Stderr: stderr, ExitCode: exitCode}
}
