package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// newBareRemote creates a bare repository usable as a push target.
func newBareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	require.NoError(t, exec.Command("git", "init", "--bare", "-b", "main", dir).Run())
	return dir
}

func TestService_RemotesListing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	bare := newBareRemote(t)

	remotes, err := svc.Remotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, remotes)

	require.NoError(t, svc.AddRemote(ctx, "origin", bare))
	remotes, err = svc.Remotes(ctx)
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	assert.Equal(t, "origin", remotes[0].Name)
	assert.Equal(t, bare, remotes[0].URL)
}

func TestService_PushSetsUpstream(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	bare := newBareRemote(t)
	require.NoError(t, svc.AddRemote(ctx, "origin", bare))

	require.NoError(t, svc.Push(ctx, "origin", "main", false, true))

	branches, err := svc.Branches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	require.NotNil(t, branches[0].Upstream)
	assert.Equal(t, "origin/main", branches[0].Upstream.Name)

	// The remote tip matches the local head.
	head, err := svc.Head(ctx)
	require.NoError(t, err)
	out, err := exec.Command("git", "-C", bare, "rev-parse", "main").Output()
	require.NoError(t, err)
	assert.Equal(t, head+"\n", string(out))
}

func TestService_PushRefusesRewrittenHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	bare := newBareRemote(t)
	require.NoError(t, svc.AddRemote(ctx, "origin", bare))
	require.NoError(t, svc.Push(ctx, "origin", "main", false, true))

	_, err := svc.run(ctx, "commit", "--amend", "-m", "rewritten")
	require.NoError(t, err)

	// A plain push is rejected as non-fast-forward.
	err = svc.Push(ctx, "origin", "main", false, false)
	require.Error(t, err)
	var cmdErr *errors.CommandError
	require.True(t, errors.As(err, &cmdErr))

	// The forced push goes through.
	require.NoError(t, svc.Push(ctx, "origin", "main", true, false))
}

func TestService_FetchAndPull(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	bare := newBareRemote(t)
	require.NoError(t, svc.AddRemote(ctx, "origin", bare))
	require.NoError(t, svc.Push(ctx, "origin", "main", false, true))

	head, err := svc.Head(ctx)
	require.NoError(t, err)

	// A second repository pulls the pushed history.
	other := t.TempDir()
	initTestRepo(t, other)
	svc2 := NewService(NewExecRunner(other))
	require.NoError(t, svc2.AddRemote(ctx, "origin", bare))
	require.NoError(t, svc2.Fetch(ctx, "origin"))
	require.NoError(t, svc2.Pull(ctx, "origin", "main"))

	head2, err := svc2.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, head, head2)
}
