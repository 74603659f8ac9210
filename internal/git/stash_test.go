package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStashList(t *testing.T) {
	output := "stash@{0}|WIP on main: a1b2c3d fix parser\n" +
		"stash@{1}|On feature/login: half-done form\n" +
		"stash@{2}|custom subject without a branch\n"

	entries := ParseStashList(output)
	require.Len(t, entries, 3)

	assert.Equal(t, StashEntry{
		Index:    0,
		Selector: "stash@{0}",
		Branch:   "main",
		Message:  "WIP on main: a1b2c3d fix parser",
	}, entries[0])

	assert.Equal(t, "feature/login", entries[1].Branch)
	assert.Equal(t, "stash@{1}", entries[1].Selector)

	assert.Empty(t, entries[2].Branch)
	assert.Equal(t, 2, entries[2].Index)
}

func TestParseStashList_Empty(t *testing.T) {
	assert.Empty(t, ParseStashList(""))
	assert.Empty(t, ParseStashList("\n\n"))
}

func TestStashBranch(t *testing.T) {
	assert.Equal(t, "main", stashBranch("WIP on main: abc fix"))
	assert.Equal(t, "dev", stashBranch("On dev: message"))
	assert.Empty(t, stashBranch("WIP on main"))
	assert.Empty(t, stashBranch("something else"))
}
