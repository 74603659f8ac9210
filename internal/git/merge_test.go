package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictedMerge drives a repository into a merge conflict on README.md.
func conflictedMerge(t *testing.T) (*Service, string) {
	t.Helper()
	svc, dir := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBranch(ctx, "feature", ""))
	require.NoError(t, svc.SwitchBranch(ctx, "feature"))
	writeFile(t, dir, "README.md", "feature line\n")
	require.NoError(t, svc.Stage(ctx, "README.md"))
	_, err := svc.Commit(ctx, "feature change")
	require.NoError(t, err)

	require.NoError(t, svc.SwitchBranch(ctx, "main"))
	writeFile(t, dir, "README.md", "main line\n")
	require.NoError(t, svc.Stage(ctx, "README.md"))
	_, err = svc.Commit(ctx, "main change")
	require.NoError(t, err)

	res, err := svc.runner.Run(ctx, "merge", "feature")
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	return svc, dir
}

func TestService_MergeStateDetection(t *testing.T) {
	svc, _ := conflictedMerge(t)
	ctx := context.Background()

	kind, err := svc.MergeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, MergeMerge, kind)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Contains(t, st.Conflicts, "README.md")
}

func TestService_MergeAbortRestoresPreMergeState(t *testing.T) {
	svc, _ := conflictedMerge(t)
	ctx := context.Background()

	require.NoError(t, svc.MergeAbort(ctx))

	kind, err := svc.MergeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, MergeNone, kind)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsClean())
}

func TestService_MergeContinueRecordsMergeCommit(t *testing.T) {
	svc, dir := conflictedMerge(t)
	ctx := context.Background()

	writeFile(t, dir, "README.md", "resolved line\n")
	require.NoError(t, svc.Stage(ctx, "README.md"))
	require.NoError(t, svc.MergeContinue(ctx))

	kind, err := svc.MergeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, MergeNone, kind)

	commits, err := svc.Log(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Len(t, commits[0].Parents, 2)
}

func TestService_MergeOpsRequireMergeInProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.Error(t, svc.MergeAbort(ctx))
	require.Error(t, svc.MergeContinue(ctx))
}

func TestMergeKindString(t *testing.T) {
	assert.Equal(t, "merge", MergeMerge.String())
	assert.Equal(t, "rebase", MergeRebase.String())
	assert.Equal(t, "cherry-pick", MergeCherryPick.String())
	assert.Equal(t, "none", MergeNone.String())
}
