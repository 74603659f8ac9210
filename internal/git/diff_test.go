package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diffFixture = `diff --git a/parser.go b/parser.go
index aaa..bbb 100644
--- a/parser.go
+++ b/parser.go
@@ -10,4 +10,5 @@ func parse() {
 context line
-removed line
+added line
+another added line
 trailing context
@@ -42 +43,2 @@
-old
+new
+newer
diff --git a/old_name.go b/new_name.go
similarity index 90%
rename from old_name.go
rename to new_name.go
@@ -1,2 +1,2 @@
-before
+after
`

func TestParseDiff(t *testing.T) {
	files := ParseDiff(diffFixture)
	require.Len(t, files, 2)

	first := files[0]
	assert.Equal(t, "parser.go", first.Path)
	assert.Empty(t, first.OldPath)
	require.Len(t, first.Hunks, 2)

	h := first.Hunks[0]
	assert.Equal(t, 10, h.OldStart)
	assert.Equal(t, 4, h.OldCount)
	assert.Equal(t, 10, h.NewStart)
	assert.Equal(t, 5, h.NewCount)
	require.Len(t, h.Lines, 5)
	assert.Equal(t, DiffContext, h.Lines[0].Kind)
	assert.Equal(t, DiffRemoved, h.Lines[1].Kind)
	assert.Equal(t, DiffAdded, h.Lines[2].Kind)
	assert.Equal(t, "+added line", h.Lines[2].Content)

	// Counts default to 1 when the range omits them.
	assert.Equal(t, 42, first.Hunks[1].OldStart)
	assert.Equal(t, 1, first.Hunks[1].OldCount)
	assert.Equal(t, 2, first.Hunks[1].NewCount)

	renamed := files[1]
	assert.Equal(t, "new_name.go", renamed.Path)
	assert.Equal(t, "old_name.go", renamed.OldPath)
	require.Len(t, renamed.Hunks, 1)
}

func TestParseDiff_Empty(t *testing.T) {
	assert.Empty(t, ParseDiff(""))
}

func TestParseDiff_LeadingNoiseIgnored(t *testing.T) {
	files := ParseDiff("warning: something\n" + diffFixture)
	assert.Len(t, files, 2)
}

func TestParseShortStat(t *testing.T) {
	s := ParseShortStat(" 3 files changed, 10 insertions(+), 2 deletions(-)")
	assert.Equal(t, DiffStats{FilesChanged: 3, Insertions: 10, Deletions: 2}, s)

	s = ParseShortStat(" 1 file changed, 1 insertion(+)")
	assert.Equal(t, DiffStats{FilesChanged: 1, Insertions: 1}, s)

	assert.Zero(t, ParseShortStat(""))
}

func TestTruncate(t *testing.T) {
	text := strings.Repeat("x", 100)

	assert.Equal(t, text, Truncate(text, 200))
	assert.Equal(t, text, Truncate(text, 0))

	cut := Truncate(text, 50)
	assert.Len(t, cut, 50)
	assert.True(t, strings.HasSuffix(cut, "...(truncated)"))

	// Budgets too small for the marker degrade to a plain cut.
	assert.Equal(t, "xxxxx", Truncate(text, 5))
}
