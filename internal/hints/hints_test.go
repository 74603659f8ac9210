package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHint_KnownPatterns(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
	}{
		{"not a repository", "fatal: not a git repository (or any of the parent directories): .git"},
		{"nothing to commit", "nothing to commit, working tree clean"},
		{"overwrite on switch", "error: Your local changes to the following files would be overwritten by checkout:"},
		{"unmerged branch", "error: the branch 'wip' is not fully merged"},
		{"bad pathspec", "fatal: pathspec 'missign.txt' did not match any files"},
		{"locked index", "fatal: Unable to create '/repo/.git/index.lock': File exists."},
		{"unknown revision", "fatal: ambiguous argument 'abc123': unknown revision or path not in the working tree."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, Hint(tt.stderr))
		})
	}
}

func TestHint_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Hint("NOT A GIT REPOSITORY"), Hint("not a git repository"))
	assert.NotEmpty(t, Hint("NOT A GIT REPOSITORY"))
}

func TestHint_UnknownPatternIsEmpty(t *testing.T) {
	assert.Empty(t, Hint("fatal: something nobody has ever seen"))
	assert.Empty(t, Hint(""))
}

func TestHint_FirstMatchWins(t *testing.T) {
	// "did not match any file" sorts before the broader "pathspec" entry.
	withBoth := Hint("fatal: pathspec 'x' did not match any files")
	assert.Equal(t, Hint("did not match any file"), withBoth)
}
