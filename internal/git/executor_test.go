package git

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// initTestRepo creates a git repo in dir with a user config so commits work on CI.
func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init", "-b", "main"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func TestExecRunner_Success(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	res, err := NewExecRunner(dir).Run(context.Background(), "rev-parse", "--is-inside-work-tree")
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, "true", strings.TrimSpace(res.Stdout))
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	res, err := NewExecRunner(dir).Run(context.Background(), "rev-parse", "no-such-ref")
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.NotZero(t, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

func TestExecRunner_Timeout(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	// A timeout this short expires before git can complete.
	runner := NewExecRunner(dir).WithTimeout(time.Nanosecond)
	_, err := runner.Run(context.Background(), "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestExecRunner_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Caller cancellation must surface as an error, never as a domain
	// result with a synthetic exit code.
	_, err := NewExecRunner(dir).Run(ctx, "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCancelled))
	assert.False(t, errors.Is(err, errors.ErrToolMissing))
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	root, err := ResolveRoot(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}

func TestResolveRoot_NotARepository(t *testing.T) {
	_, err := ResolveRoot(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotRepository))
}

func TestLookupTool(t *testing.T) {
	assert.NoError(t, LookupTool())
}
