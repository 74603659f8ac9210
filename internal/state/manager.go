// Package state owns the in-memory repository snapshot and sequences all
// domain operations through a per-target Idle -> Pending -> Idle|Failed
// machine with optimistic updates and scoped refresh.
package state

import (
	"context"
	"fmt"

	"github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/safety"
)

// Scope selects which part of the snapshot a refresh re-derives.
type Scope int

const (
	ScopeFiles Scope = iota
	ScopeCommits
	ScopeBranches
	ScopeFull
)

// Phase is the lifecycle of one logical target.
type Phase int

const (
	Idle Phase = iota
	Pending
	Failed
)

// PendingOperation describes the operation currently holding a target.
type PendingOperation struct {
	Op     safety.Op
	Target string
}

// RepositorySnapshot aggregates all repository state the presentation
// layer reads. The manager owns the single mutable instance; readers
// receive copies.
type RepositorySnapshot struct {
	Branch     string
	Upstream   string
	Ahead      int
	Behind     int
	Staged     []git.FileEntry
	Unstaged   []git.FileEntry
	Untracked  []git.FileEntry
	Conflicts  []string
	StashCount int
	Commits    []git.CommitRecord
	Branches   []git.BranchRecord
	Reflog     []git.ReflogEntry
}

// Confirmer obtains destructive-operation confirmation from the operator.
// Declining is a normal outcome, not an error.
type Confirmer interface {
	// Confirm presents the impact sentence and returns the decision.
	Confirm(impact string) (bool, error)
	// ConfirmTyped additionally requires the operator to type phrase.
	ConfirmTyped(impact, phrase string) (bool, error)
}

// Window sizes for the commit and reflog views.
const (
	commitWindow = 50
	reflogWindow = 50
)

// Manager sequences domain operations and owns the snapshot. It is
// driven from a single control loop; it performs no locking of its own.
type Manager struct {
	svc     *git.Service
	confirm Confirmer

	snapshot RepositorySnapshot
	pending  map[string]PendingOperation
	failed   map[string]error

	// In-flight guidance request identity, for stale-result discard.
	guidanceID  string
	guidanceRef string
}

// NewManager creates a Manager over the command layer. The confirmer
// gates every Destructive operation.
func NewManager(svc *git.Service, confirm Confirmer) *Manager {
	return &Manager{
		svc:     svc,
		confirm: confirm,
		pending: make(map[string]PendingOperation),
		failed:  make(map[string]error),
	}
}

// Snapshot returns a copy of the current repository snapshot.
func (m *Manager) Snapshot() RepositorySnapshot {
	s := m.snapshot
	s.Staged = append([]git.FileEntry(nil), m.snapshot.Staged...)
	s.Unstaged = append([]git.FileEntry(nil), m.snapshot.Unstaged...)
	s.Untracked = append([]git.FileEntry(nil), m.snapshot.Untracked...)
	s.Conflicts = append([]string(nil), m.snapshot.Conflicts...)
	s.Commits = append([]git.CommitRecord(nil), m.snapshot.Commits...)
	s.Branches = append([]git.BranchRecord(nil), m.snapshot.Branches...)
	s.Reflog = append([]git.ReflogEntry(nil), m.snapshot.Reflog...)
	return s
}

// Phase returns the lifecycle phase of a logical target.
func (m *Manager) Phase(target string) Phase {
	if _, ok := m.pending[target]; ok {
		return Pending
	}
	if _, ok := m.failed[target]; ok {
		return Failed
	}
	return Idle
}

// LastError returns the failure recorded for a target, if any.
func (m *Manager) LastError(target string) error {
	return m.failed[target]
}

// Ack acknowledges a failure, returning the target to Idle.
func (m *Manager) Ack(target string) {
	delete(m.failed, target)
}

// Refresh re-derives the given scope from fresh subprocess queries.
// Snapshots are never patched incrementally from parsed deltas.
func (m *Manager) Refresh(ctx context.Context, scope Scope) error {
	if scope == ScopeFiles || scope == ScopeFull {
		st, err := m.svc.Status(ctx)
		if err != nil {
			return err
		}
		m.snapshot.Branch = st.Branch
		m.snapshot.Upstream = st.Upstream
		m.snapshot.Ahead = st.Ahead
		m.snapshot.Behind = st.Behind
		m.snapshot.Staged = st.Staged
		m.snapshot.Unstaged = st.Unstaged
		m.snapshot.Untracked = st.Untracked
		m.snapshot.Conflicts = st.Conflicts
		m.snapshot.StashCount = st.StashCount
	}
	if scope == ScopeCommits || scope == ScopeFull {
		commits, err := m.svc.Log(ctx, commitWindow, 0)
		if err != nil {
			return err
		}
		m.snapshot.Commits = commits

		reflog, err := m.svc.Reflog(ctx, reflogWindow)
		if err != nil {
			return err
		}
		m.snapshot.Reflog = reflog
	}
	if scope == ScopeBranches || scope == ScopeFull {
		branches, err := m.svc.Branches(ctx)
		if err != nil {
			return err
		}
		m.snapshot.Branches = branches
	}
	return nil
}

// begin transitions a target from Idle to Pending, applying the
// destructive-confirmation gate first. Re-entrant intents are rejected
// with ErrBusy; a declined confirmation returns ErrCancelled with no
// subprocess call issued.
func (m *Manager) begin(op safety.Op, target string) error {
	if _, ok := m.pending[target]; ok {
		return errors.Wrapf(errors.ErrBusy, "%s", target)
	}
	if err, ok := m.failed[target]; ok {
		return errors.Wrapf(errors.ErrBusy, "%s has an unacknowledged failure: %v", target, err)
	}

	tier, impact := safety.Classify(op)
	if tier == safety.Destructive {
		var (
			ok  bool
			err error
		)
		if safety.RequiresTypedConfirmation(op) {
			ok, err = m.confirm.ConfirmTyped(impact, confirmPhrase(op))
		} else {
			ok, err = m.confirm.Confirm(impact)
		}
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrCancelled
		}
	}

	m.pending[target] = PendingOperation{Op: op, Target: target}
	return nil
}

// finish resolves a Pending target: success refreshes the given scope
// and returns to Idle, failure records the error and moves to Failed.
func (m *Manager) finish(ctx context.Context, target string, scope Scope, opErr error) error {
	delete(m.pending, target)
	if opErr != nil {
		m.failed[target] = opErr
		return opErr
	}
	return m.Refresh(ctx, scope)
}

func confirmPhrase(op safety.Op) string {
	switch op {
	case safety.OpResetHard:
		return "reset --hard"
	case safety.OpReflogRecoverHard:
		return "discard my changes"
	case safety.OpStashClear:
		return "clear all stashes"
	default:
		return "yes"
	}
}

func fileTarget(path string) string   { return "file:" + path }
func branchTarget(name string) string { return "branch:" + name }

// Global single-slot targets.
const (
	targetCommit = "commit"
	targetReset  = "reset"
	targetStash  = "stash"
	targetRemote = "remote"
	targetMerge  = "merge"
)

// StageFile stages one path. The snapshot is updated optimistically
// before the subprocess call resolves and rolled back on failure.
func (m *Manager) StageFile(ctx context.Context, path string) error {
	target := fileTarget(path)
	if err := m.begin(safety.OpStage, target); err != nil {
		return err
	}

	saved := m.Snapshot()
	m.applyOptimisticStage(path)

	err := m.svc.Stage(ctx, path)
	if err != nil {
		m.snapshot = saved
	}
	return m.finish(ctx, target, ScopeFiles, err)
}

// UnstageFile removes one path from the index, optimistically.
func (m *Manager) UnstageFile(ctx context.Context, path string) error {
	target := fileTarget(path)
	if err := m.begin(safety.OpUnstage, target); err != nil {
		return err
	}

	saved := m.Snapshot()
	m.applyOptimisticUnstage(path)

	err := m.svc.Unstage(ctx, path)
	if err != nil {
		m.snapshot = saved
	}
	return m.finish(ctx, target, ScopeFiles, err)
}

// applyOptimisticStage moves path from the unstaged or untracked
// partition into the staged partition.
func (m *Manager) applyOptimisticStage(path string) {
	for i, f := range m.snapshot.Unstaged {
		if f.Path == path {
			m.snapshot.Unstaged = append(m.snapshot.Unstaged[:i], m.snapshot.Unstaged[i+1:]...)
			f.Staged = true
			m.snapshot.Staged = append(m.snapshot.Staged, f)
			return
		}
	}
	for i, f := range m.snapshot.Untracked {
		if f.Path == path {
			m.snapshot.Untracked = append(m.snapshot.Untracked[:i], m.snapshot.Untracked[i+1:]...)
			m.snapshot.Staged = append(m.snapshot.Staged, git.FileEntry{
				Path: path, Kind: git.KindAdded, Staged: true,
			})
			return
		}
	}
}

// applyOptimisticUnstage moves path from the staged partition back to
// unstaged, or to untracked for newly added files.
func (m *Manager) applyOptimisticUnstage(path string) {
	for i, f := range m.snapshot.Staged {
		if f.Path != path {
			continue
		}
		m.snapshot.Staged = append(m.snapshot.Staged[:i], m.snapshot.Staged[i+1:]...)
		if f.Kind == git.KindAdded {
			m.snapshot.Untracked = append(m.snapshot.Untracked, git.FileEntry{
				Path: path, Kind: git.KindUntracked,
			})
			return
		}
		f.Staged = false
		m.snapshot.Unstaged = append(m.snapshot.Unstaged, f)
		return
	}
}

// Commit records the staged set. One global pending slot; no optimistic
// update, commits are re-derived on refresh.
func (m *Manager) Commit(ctx context.Context, message string) (*git.CommitRecord, error) {
	if err := m.begin(safety.OpCommit, targetCommit); err != nil {
		return nil, err
	}
	record, err := m.svc.Commit(ctx, message)
	if ferr := m.finish(ctx, targetCommit, ScopeFull, err); ferr != nil {
		return nil, ferr
	}
	return record, nil
}

// CreateBranch creates a branch at HEAD or from.
func (m *Manager) CreateBranch(ctx context.Context, name, from string) error {
	target := branchTarget(name)
	if err := m.begin(safety.OpBranchCreate, target); err != nil {
		return err
	}
	err := m.svc.CreateBranch(ctx, name, from)
	return m.finish(ctx, target, ScopeBranches, err)
}

// SwitchBranch performs a non-forced switch to name.
func (m *Manager) SwitchBranch(ctx context.Context, name string) error {
	target := branchTarget(name)
	if err := m.begin(safety.OpBranchSwitch, target); err != nil {
		return err
	}
	err := m.svc.SwitchBranch(ctx, name)
	return m.finish(ctx, target, ScopeFull, err)
}

// RenameBranch renames the current branch.
func (m *Manager) RenameBranch(ctx context.Context, newName string) error {
	target := branchTarget(newName)
	if err := m.begin(safety.OpBranchRename, target); err != nil {
		return err
	}
	err := m.svc.RenameBranch(ctx, newName)
	return m.finish(ctx, target, ScopeBranches, err)
}

// DeleteBranch deletes name. Unmerged branches classify as a forced,
// Destructive delete and require confirmation before any subprocess call.
func (m *Manager) DeleteBranch(ctx context.Context, name string) error {
	merged, err := m.svc.BranchMerged(ctx, name)
	if err != nil {
		return err
	}
	op := safety.OpBranchDelete
	if !merged {
		op = safety.OpBranchDeleteForced
	}

	target := branchTarget(name)
	if err := m.begin(op, target); err != nil {
		return err
	}
	err = m.svc.DeleteBranch(ctx, name)
	return m.finish(ctx, target, ScopeBranches, err)
}

// Reset moves HEAD to target with the given mode. Hard resets are
// Destructive and require the typed confirmation gesture.
func (m *Manager) Reset(ctx context.Context, commit string, mode git.ResetMode) error {
	var op safety.Op
	switch mode {
	case git.ResetSoft:
		op = safety.OpResetSoft
	case git.ResetMixed:
		op = safety.OpResetMixed
	case git.ResetHard:
		op = safety.OpResetHard
	default:
		return fmt.Errorf("unknown reset mode %d", mode)
	}

	if err := m.begin(op, targetReset); err != nil {
		return err
	}
	err := m.svc.Reset(ctx, commit, mode)
	return m.finish(ctx, targetReset, ScopeFull, err)
}

// RestorePath overwrites local changes to path from source (HEAD when
// empty). Destructive.
func (m *Manager) RestorePath(ctx context.Context, path, source string) error {
	target := fileTarget(path)
	if err := m.begin(safety.OpRestorePath, target); err != nil {
		return err
	}
	err := m.svc.Restore(ctx, path, source)
	return m.finish(ctx, target, ScopeFiles, err)
}

// RecoverFromReflog recovers the commit at a reflog entry. The default
// creates a rescue branch and leaves the working tree alone; hard
// recovery resets to the entry and is gated as Destructive.
func (m *Manager) RecoverFromReflog(ctx context.Context, entry git.ReflogEntry, rescueBranch string, hard bool) error {
	if hard {
		if err := m.begin(safety.OpReflogRecoverHard, targetReset); err != nil {
			return err
		}
		err := m.svc.HardRecover(ctx, entry.Hash)
		return m.finish(ctx, targetReset, ScopeFull, err)
	}

	target := branchTarget(rescueBranch)
	if err := m.begin(safety.OpReflogRecoverBranch, target); err != nil {
		return err
	}
	err := m.svc.RecoverToBranch(ctx, entry.Hash, rescueBranch)
	return m.finish(ctx, target, ScopeBranches, err)
}

// ExpectGuidance records the identity of the in-flight guidance request
// and the branch it was issued against. A newer request supersedes any
// earlier one; the superseded result is simply ignored on arrival.
func (m *Manager) ExpectGuidance(requestID, boundRef string) {
	m.guidanceID = requestID
	m.guidanceRef = boundRef
}

// AcceptGuidance reports whether an arriving guidance result is still
// current: its request ID must match the in-flight one and the branch it
// was issued against must still be checked out. Accepted results clear
// the expectation; stale ones are discarded without effect.
func (m *Manager) AcceptGuidance(requestID string) bool {
	if requestID == "" || requestID != m.guidanceID {
		return false
	}
	if m.guidanceRef != "" && m.guidanceRef != m.snapshot.Branch {
		return false
	}
	m.guidanceID = ""
	m.guidanceRef = ""
	return true
}

// Push uploads the current branch to remote. The first push of a branch
// with no upstream also sets the tracking relationship. A forced push is
// Destructive and confirmed before any subprocess call.
func (m *Manager) Push(ctx context.Context, remote string, force bool) error {
	if m.snapshot.Branch == "" {
		return errors.New("cannot push from a detached HEAD")
	}

	op := safety.OpPush
	if force {
		op = safety.OpPushForced
	}
	if err := m.begin(op, targetRemote); err != nil {
		return err
	}

	setUpstream := m.snapshot.Upstream == ""
	err := m.svc.Push(ctx, remote, m.snapshot.Branch, force, setUpstream)
	return m.finish(ctx, targetRemote, ScopeFull, err)
}

// Fetch downloads history from remote. Local branches are untouched;
// only the ahead/behind view changes.
func (m *Manager) Fetch(ctx context.Context, remote string) error {
	if err := m.begin(safety.OpFetch, targetRemote); err != nil {
		return err
	}
	err := m.svc.Fetch(ctx, remote)
	return m.finish(ctx, targetRemote, ScopeFull, err)
}

// Pull rebases the current branch on top of the remote branch.
func (m *Manager) Pull(ctx context.Context, remote string) error {
	if err := m.begin(safety.OpPull, targetRemote); err != nil {
		return err
	}
	err := m.svc.Pull(ctx, remote, "")
	return m.finish(ctx, targetRemote, ScopeFull, err)
}

// MergeAbort abandons the in-progress merge, rebase, or cherry-pick.
func (m *Manager) MergeAbort(ctx context.Context) error {
	if err := m.begin(safety.OpMergeAbort, targetMerge); err != nil {
		return err
	}
	err := m.svc.MergeAbort(ctx)
	return m.finish(ctx, targetMerge, ScopeFull, err)
}

// MergeContinue records the resolved merge operation.
func (m *Manager) MergeContinue(ctx context.Context) error {
	if err := m.begin(safety.OpMergeContinue, targetMerge); err != nil {
		return err
	}
	err := m.svc.MergeContinue(ctx)
	return m.finish(ctx, targetMerge, ScopeFull, err)
}

// StashPush stashes working-tree changes.
func (m *Manager) StashPush(ctx context.Context, message string) error {
	if err := m.begin(safety.OpStashPush, targetStash); err != nil {
		return err
	}
	err := m.svc.StashPush(ctx, message)
	return m.finish(ctx, targetStash, ScopeFiles, err)
}

// StashPop applies and drops the stash at index.
func (m *Manager) StashPop(ctx context.Context, index int) error {
	if err := m.begin(safety.OpStashPop, targetStash); err != nil {
		return err
	}
	err := m.svc.StashPop(ctx, index)
	return m.finish(ctx, targetStash, ScopeFiles, err)
}

// StashApply applies the stash at index, keeping it.
func (m *Manager) StashApply(ctx context.Context, index int) error {
	if err := m.begin(safety.OpStashApply, targetStash); err != nil {
		return err
	}
	err := m.svc.StashApply(ctx, index)
	return m.finish(ctx, targetStash, ScopeFiles, err)
}

// StashDrop deletes the stash at index. Destructive.
func (m *Manager) StashDrop(ctx context.Context, index int) error {
	if err := m.begin(safety.OpStashDrop, targetStash); err != nil {
		return err
	}
	err := m.svc.StashDrop(ctx, index)
	return m.finish(ctx, targetStash, ScopeFiles, err)
}

// StashClear deletes every stash entry. Destructive with typed confirmation.
func (m *Manager) StashClear(ctx context.Context) error {
	if err := m.begin(safety.OpStashClear, targetStash); err != nil {
		return err
	}
	err := m.svc.StashClear(ctx)
	return m.finish(ctx, targetStash, ScopeFiles, err)
}
