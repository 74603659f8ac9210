package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Total(t *testing.T) {
	for _, op := range Ops() {
		assert.NotPanics(t, func() {
			tier, impact := Classify(op)
			assert.NotEmpty(t, impact, "op %d has no impact sentence", op)
			assert.Contains(t, []Tier{Safe, Caution, Destructive}, tier)
		})
	}
}

func TestClassify_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Classify(opSentinel) })
}

func TestClassify_Queries(t *testing.T) {
	for _, op := range []Op{OpStatusQuery, OpLogQuery, OpBranchQuery, OpReflogQuery, OpDiffQuery, OpStashQuery, OpFetch} {
		tier, _ := Classify(op)
		assert.Equal(t, Safe, tier)
	}
}

func TestClassify_DestructiveSet(t *testing.T) {
	destructive := map[Op]bool{
		OpBranchDeleteForced: true,
		OpResetHard:          true,
		OpRestorePath:        true,
		OpReflogRecoverHard:  true,
		OpStashDrop:          true,
		OpStashClear:         true,
		OpPushForced:         true,
	}
	for _, op := range Ops() {
		tier, _ := Classify(op)
		assert.Equal(t, destructive[op], tier == Destructive, "op %d", op)
	}
}

func TestRequiresTypedConfirmation(t *testing.T) {
	typed := []Op{OpResetHard, OpReflogRecoverHard, OpStashClear}
	for _, op := range typed {
		assert.True(t, RequiresTypedConfirmation(op))
		// Typed confirmation only ever applies to destructive operations.
		tier, _ := Classify(op)
		require.Equal(t, Destructive, tier)
	}

	assert.False(t, RequiresTypedConfirmation(OpStashDrop))
	assert.False(t, RequiresTypedConfirmation(OpPushForced))
	assert.False(t, RequiresTypedConfirmation(OpCommit))
	assert.False(t, RequiresTypedConfirmation(OpStatusQuery))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "safe", Safe.String())
	assert.Equal(t, "caution", Caution.String())
	assert.Equal(t, "destructive", Destructive.String())
	assert.Equal(t, "unknown", Tier(9).String())
}
