package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// newTestService creates a Service over a fresh repo with one commit.
func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	initTestRepo(t, dir)

	svc := NewService(NewExecRunner(dir))
	writeFile(t, dir, "README.md", "hello\n")
	require.NoError(t, svc.Stage(context.Background(), "README.md"))
	_, err := svc.Commit(context.Background(), "initial commit")
	require.NoError(t, err)
	return svc, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestService_StageUnstageRoundTrip(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "new.go", "package main\n")
	st, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st.Untracked, 1)
	assert.Empty(t, st.Staged)

	require.NoError(t, svc.Stage(ctx, "new.go"))
	st, err = svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	assert.Equal(t, KindAdded, st.Staged[0].Kind)
	assert.Empty(t, st.Untracked)

	require.NoError(t, svc.Unstage(ctx, "new.go"))
	st, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Staged)
	require.Len(t, st.Untracked, 1)
}

func TestService_CommitReturnsRecord(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "a.txt", "a\n")
	require.NoError(t, svc.Stage(ctx, "a.txt"))

	record, err := svc.Commit(ctx, "add a.txt")
	require.NoError(t, err)
	assert.Equal(t, "add a.txt", record.Subject)
	assert.NotEmpty(t, record.Hash)
	assert.Len(t, record.Parents, 1)
}

func TestService_CommitRejectsEmptyMessage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Commit(context.Background(), "   ")
	require.Error(t, err)
}

func TestService_CommitFailureCarriesStderr(t *testing.T) {
	svc, _ := newTestService(t)

	// Nothing staged: git exits non-zero.
	_, err := svc.Commit(context.Background(), "empty")
	require.Error(t, err)

	var cmdErr *errors.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.NotZero(t, cmdErr.ExitCode)
}

func TestService_LogWindow(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"b.txt", "c.txt", "d.txt"} {
		writeFile(t, dir, name, name+"\n")
		require.NoError(t, svc.Stage(ctx, name))
		_, err := svc.Commit(ctx, "add "+name)
		require.NoError(t, err)
	}

	commits, err := svc.Log(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "add d.txt", commits[0].Subject)

	skipped, err := svc.Log(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, skipped, 2)
	assert.Equal(t, "add b.txt", skipped[0].Subject)
}

func TestService_LogEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	svc := NewService(NewExecRunner(dir))

	commits, err := svc.Log(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestService_SearchLog(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "fix.txt", "x\n")
	require.NoError(t, svc.Stage(ctx, "fix.txt"))
	_, err := svc.Commit(ctx, "fix the widget")
	require.NoError(t, err)

	matches, err := svc.SearchLog(ctx, "WIDGET", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "fix the widget", matches[0].Subject)

	none, err := svc.SearchLog(ctx, "nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_Branches(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBranch(ctx, "feature", ""))
	branches, err := svc.Branches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 2)

	require.NoError(t, svc.SwitchBranch(ctx, "feature"))
	current, err := svc.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature", current)
}

func TestService_DeleteBranchRefusesCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.DeleteBranch(context.Background(), "main")
	require.Error(t, err)
}

func TestService_DeleteBranchUnmerged(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBranch(ctx, "wip", ""))
	require.NoError(t, svc.SwitchBranch(ctx, "wip"))
	writeFile(t, dir, "wip.txt", "wip\n")
	require.NoError(t, svc.Stage(ctx, "wip.txt"))
	_, err := svc.Commit(ctx, "wip commit")
	require.NoError(t, err)
	require.NoError(t, svc.SwitchBranch(ctx, "main"))

	merged, err := svc.BranchMerged(ctx, "wip")
	require.NoError(t, err)
	assert.False(t, merged)

	// Unmerged branches are deleted with the forced verb.
	require.NoError(t, svc.DeleteBranch(ctx, "wip"))
	branches, err := svc.Branches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 1)
}

func TestService_ResetModes(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "r.txt", "r\n")
	require.NoError(t, svc.Stage(ctx, "r.txt"))
	_, err := svc.Commit(ctx, "add r.txt")
	require.NoError(t, err)

	// Soft reset keeps the change staged.
	require.NoError(t, svc.Reset(ctx, "HEAD~1", ResetSoft))
	st, err := svc.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	assert.Equal(t, "r.txt", st.Staged[0].Path)

	// Hard reset discards it entirely.
	require.NoError(t, svc.Reset(ctx, "HEAD", ResetHard))
	st, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsClean())
}

func TestService_Restore(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "README.md", "changed\n")
	require.NoError(t, svc.Restore(ctx, "README.md", ""))

	content, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestService_ReflogAndRecover(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "lost.txt", "lost\n")
	require.NoError(t, svc.Stage(ctx, "lost.txt"))
	record, err := svc.Commit(ctx, "commit to lose")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "HEAD~1", ResetHard))

	entries, err := svc.Reflog(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, 0, entries[0].Index)

	require.NoError(t, svc.RecoverToBranch(ctx, record.Hash, "rescue/lost"))
	branches, err := svc.Branches(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "rescue/lost")
}

func TestService_StashLifecycle(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "README.md", "dirty\n")
	require.NoError(t, svc.StashPush(ctx, "half-done work"))

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsClean())
	assert.Equal(t, 1, st.StashCount)

	stashes, err := svc.Stashes(ctx)
	require.NoError(t, err)
	require.Len(t, stashes, 1)
	assert.Contains(t, stashes[0].Message, "half-done work")
	assert.Equal(t, "main", stashes[0].Branch)

	require.NoError(t, svc.StashPop(ctx, 0))
	st, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.IsClean())
	assert.Zero(t, st.StashCount)
}

func TestService_StagedDiff(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	writeFile(t, dir, "README.md", "hello\nworld\n")
	require.NoError(t, svc.Stage(ctx, "README.md"))

	files, err := svc.StagedDiff(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "README.md", files[0].Path)

	text, err := svc.StagedDiffText(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "+world")

	stats, err := svc.StagedStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesChanged)
	assert.Equal(t, 1, stats.Insertions)
}
