package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

const statusFixture = `# branch.oid 4f1c2ab9
# branch.head main
# branch.upstream origin/main
# branch.ab +2 -1
1 M. N... 100644 100644 100644 aaa bbb staged.go
1 .M N... 100644 100644 100644 aaa aaa dirty.go
1 MM N... 100644 100644 100644 aaa bbb both.go
1 A. N... 000000 100644 100644 000 bbb new.go
1 .D N... 100644 100644 000000 aaa aaa gone.go
2 R. N... 100644 100644 100644 aaa bbb R90 renamed.go	old.go
u UU N... 100644 100644 100644 100644 aaa bbb ccc conflict.go
? untracked.txt
! ignored.txt
`

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(statusFixture)
	require.NoError(t, err)

	assert.Equal(t, "main", st.Branch)
	assert.Equal(t, "origin/main", st.Upstream)
	assert.Equal(t, 2, st.Ahead)
	assert.Equal(t, 1, st.Behind)

	require.Len(t, st.Staged, 4)
	assert.Equal(t, FileEntry{Path: "staged.go", Kind: KindModified, Staged: true}, st.Staged[0])
	assert.Equal(t, FileEntry{Path: "new.go", Kind: KindAdded, Staged: true}, st.Staged[2])
	assert.Equal(t, FileEntry{Path: "renamed.go", Kind: KindRenamed, Staged: true, FromPath: "old.go"}, st.Staged[3])

	require.Len(t, st.Unstaged, 3)
	assert.Equal(t, "dirty.go", st.Unstaged[0].Path)
	assert.Equal(t, "both.go", st.Unstaged[1].Path)
	assert.Equal(t, FileEntry{Path: "gone.go", Kind: KindDeleted}, st.Unstaged[2])

	require.Len(t, st.Untracked, 1)
	assert.Equal(t, "untracked.txt", st.Untracked[0].Path)
	assert.Equal(t, KindUntracked, st.Untracked[0].Kind)

	assert.Equal(t, []string{"conflict.go"}, st.Conflicts)
	assert.Zero(t, st.SkippedRows)
	assert.False(t, st.IsClean())
}

func TestParseStatus_BothStagedAndUnstaged(t *testing.T) {
	st, err := ParseStatus("# branch.head main\n1 MM N... 100644 100644 100644 aaa bbb both.go\n")
	require.NoError(t, err)

	// A path with both index and worktree changes appears in both partitions.
	require.Len(t, st.Staged, 1)
	require.Len(t, st.Unstaged, 1)
	assert.Equal(t, "both.go", st.Staged[0].Path)
	assert.Equal(t, "both.go", st.Unstaged[0].Path)
}

func TestParseStatus_Empty(t *testing.T) {
	st, err := ParseStatus("")
	require.NoError(t, err)
	assert.True(t, st.IsClean())
	assert.Equal(t, "(unknown)", st.Branch)
}

func TestParseStatus_CleanRepo(t *testing.T) {
	st, err := ParseStatus("# branch.oid abc\n# branch.head main\n")
	require.NoError(t, err)
	assert.True(t, st.IsClean())
	assert.Equal(t, "main", st.Branch)
}

func TestParseStatus_UnrecognizedRowsCounted(t *testing.T) {
	st, err := ParseStatus("# branch.head main\nz weird row\n1 M. truncated\n")
	require.NoError(t, err)
	assert.Equal(t, 2, st.SkippedRows)
}

func TestParseStatus_GarbageFails(t *testing.T) {
	_, err := ParseStatus("this is not porcelain output at all")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestFileKindString(t *testing.T) {
	assert.Equal(t, "modified", KindModified.String())
	assert.Equal(t, "untracked", KindUntracked.String())
	assert.Equal(t, "unknown", FileKind(99).String())
}
