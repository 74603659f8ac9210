package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrTimeout, "git status")
	assert.True(t, Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), "git status")

	err = Wrapf(ErrBusy, "target %q", "file:a.go")
	assert.True(t, Is(err, ErrBusy))
	assert.Contains(t, err.Error(), `"file:a.go"`)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrToolMissing, ErrNotRepository, ErrTimeout, ErrBusy, ErrCancelled, ErrParse}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, Is(a, b))
		}
	}
}

func TestCommandError(t *testing.T) {
	err := NewCommandError([]string{"commit", "-m", "msg"}, "nothing to commit", 1)
	assert.Equal(t, `git commit -m msg failed (exit 1): nothing to commit`, err.Error())

	var cmdErr *CommandError
	wrapped := Wrap(err, "commit")
	require.True(t, As(wrapped, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, "nothing to commit", cmdErr.Stderr)
}

func TestCommandError_NoStderr(t *testing.T) {
	err := NewCommandError([]string{"merge-base", "--is-ancestor", "a", "b"}, "", 1)
	assert.Equal(t, "git merge-base --is-ancestor a b failed (exit 1)", err.Error())
}
