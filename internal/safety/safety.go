// Package safety classifies domain operations into confirmation tiers.
//
// The operation set is closed and Classify switches over every kind, so
// an unclassified operation panics in tests rather than silently passing
// as safe.
package safety

import "fmt"

// Tier is the confirmation requirement for an operation.
type Tier int

const (
	// Safe operations are read-only and never prompt.
	Safe Tier = iota
	// Caution operations mutate state reversibly and proceed without a prompt.
	Caution
	// Destructive operations discard work or rewrite history and require
	// explicit confirmation. The strongest ones additionally require a
	// typed confirmation phrase.
	Destructive
)

// String returns the tier's name.
func (t Tier) String() string {
	switch t {
	case Safe:
		return "safe"
	case Caution:
		return "caution"
	case Destructive:
		return "destructive"
	default:
		return "unknown"
	}
}

// Op is one recognized operation kind.
type Op int

const (
	OpStatusQuery Op = iota
	OpLogQuery
	OpBranchQuery
	OpReflogQuery
	OpDiffQuery
	OpStashQuery
	OpStage
	OpUnstage
	OpCommit
	OpBranchCreate
	OpBranchSwitch
	OpBranchRename
	OpBranchDelete
	OpBranchDeleteForced
	OpResetSoft
	OpResetMixed
	OpResetHard
	OpRestorePath
	OpReflogRecoverBranch
	OpReflogRecoverHard
	OpStashPush
	OpStashPop
	OpStashApply
	OpStashDrop
	OpStashClear
	OpFetch
	OpPull
	OpPush
	OpPushForced
	OpMergeAbort
	OpMergeContinue

	opSentinel // keep last
)

// Ops returns every recognized operation kind, for totality checks.
func Ops() []Op {
	ops := make([]Op, 0, int(opSentinel))
	for op := Op(0); op < opSentinel; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Classify returns the tier for an operation together with a
// human-readable impact sentence suitable for a confirmation prompt.
// It panics on unrecognized kinds; Ops-driven tests keep it total.
func Classify(op Op) (Tier, string) {
	switch op {
	case OpStatusQuery:
		return Safe, "Reads repository status. Nothing changes."
	case OpLogQuery:
		return Safe, "Reads commit history. Nothing changes."
	case OpBranchQuery:
		return Safe, "Reads the branch list. Nothing changes."
	case OpReflogQuery:
		return Safe, "Reads the reference log. Nothing changes."
	case OpDiffQuery:
		return Safe, "Reads file differences. Nothing changes."
	case OpStashQuery:
		return Safe, "Reads the stash list. Nothing changes."
	case OpStage:
		return Caution, "Adds the file to the staging area. Reversible with unstage."
	case OpUnstage:
		return Caution, "Removes the file from the staging area. Your edits are kept."
	case OpCommit:
		return Caution, "Records the staged changes as a new commit."
	case OpBranchCreate:
		return Caution, "Creates a new branch. Existing branches are untouched."
	case OpBranchSwitch:
		return Caution, "Switches branches. Fails rather than overwriting local changes."
	case OpBranchRename:
		return Caution, "Renames the current branch."
	case OpBranchDelete:
		return Caution, "Deletes a fully merged branch. Its commits remain reachable."
	case OpBranchDeleteForced:
		return Destructive, "Deletes an unmerged branch. Its commits may become unreachable."
	case OpResetSoft:
		return Caution, "Moves HEAD back. All changes stay staged; files are not modified."
	case OpResetMixed:
		return Caution, "Moves HEAD back and unstages changes. Files are not modified."
	case OpResetHard:
		return Destructive, "Permanently discards ALL uncommitted changes, staged and unstaged. This cannot be undone."
	case OpRestorePath:
		return Destructive, "Overwrites the file's local changes with the chosen version. Unsaved edits are lost."
	case OpReflogRecoverBranch:
		return Caution, "Creates a rescue branch at the selected entry. Your working tree is untouched."
	case OpReflogRecoverHard:
		return Destructive, "Hard-resets to the selected entry, permanently discarding all uncommitted work."
	case OpStashPush:
		return Caution, "Moves working-tree changes into a stash. Restorable with pop or apply."
	case OpStashPop:
		return Caution, "Applies the stash and removes it from the list."
	case OpStashApply:
		return Caution, "Applies the stash, keeping it in the list."
	case OpStashDrop:
		return Destructive, "Deletes the stash entry. Stashed changes are lost."
	case OpStashClear:
		return Destructive, "Deletes EVERY stash entry. All stashed changes are lost."
	case OpFetch:
		return Safe, "Downloads remote history. Your branches and files are untouched."
	case OpPull:
		return Caution, "Rebases your local commits on top of the remote branch."
	case OpPush:
		return Caution, "Uploads your commits to the remote branch. Fails rather than rewriting remote history."
	case OpPushForced:
		return Destructive, "Replaces the remote branch with your local history. Commits others pushed may be lost."
	case OpMergeAbort:
		return Caution, "Abandons the in-progress merge and returns to the pre-merge state."
	case OpMergeContinue:
		return Caution, "Records the resolved merge as a new commit."
	default:
		panic(fmt.Sprintf("safety: unclassified operation %d", op))
	}
}

// RequiresTypedConfirmation reports whether the operation needs the
// stronger typed-phrase confirmation on top of a yes/no prompt.
func RequiresTypedConfirmation(op Op) bool {
	switch op {
	case OpResetHard, OpReflogRecoverHard, OpStashClear:
		return true
	default:
		return false
	}
}
