// Package git wraps the external git CLI: a timeout-bounded subprocess
// runner, parsers for git's machine-readable output modes, and a Service
// exposing one typed entry point per domain operation.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// ResetMode selects how far a reset reaches.
type ResetMode int

const (
	// ResetSoft moves HEAD only; index and working tree are untouched.
	ResetSoft ResetMode = iota
	// ResetMixed moves HEAD and the index; the working tree is untouched.
	ResetMixed
	// ResetHard moves HEAD, the index, and the working tree.
	ResetHard
)

// Flag returns the git argument for the mode.
func (m ResetMode) Flag() string {
	switch m {
	case ResetSoft:
		return "--soft"
	case ResetMixed:
		return "--mixed"
	case ResetHard:
		return "--hard"
	default:
		return "--mixed"
	}
}

// String returns the mode's name.
func (m ResetMode) String() string {
	return strings.TrimPrefix(m.Flag(), "--")
}

// Service composes the runner and parsers into domain operations.
// Argument vectors are built from typed inputs, never by interpolating
// untrusted text into a shell.
type Service struct {
	runner Runner
}

// NewService creates a Service on top of the given runner.
func NewService(runner Runner) *Service {
	return &Service{runner: runner}
}

// run invokes git and converts a non-zero exit into a CommandError
// carrying the raw stderr.
func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	res, err := s.runner.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	if !res.Succeeded {
		return "", errors.NewCommandError(args, strings.TrimSpace(res.Stderr), res.ExitCode)
	}
	return res.Stdout, nil
}

// Status returns the full repository status including the stash count.
func (s *Service) Status(ctx context.Context) (*RepoStatus, error) {
	out, err := s.run(ctx, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return nil, err
	}
	st, err := ParseStatus(out)
	if err != nil {
		return nil, err
	}
	if stashes, err := s.Stashes(ctx); err == nil {
		st.StashCount = len(stashes)
	}
	return st, nil
}

// Stage adds a single path to the index.
func (s *Service) Stage(ctx context.Context, path string) error {
	_, err := s.run(ctx, "add", "--", path)
	return err
}

// StageAll adds every change in the working tree to the index.
func (s *Service) StageAll(ctx context.Context) error {
	_, err := s.run(ctx, "add", "--all")
	return err
}

// Unstage removes a single path from the index, leaving the working tree alone.
func (s *Service) Unstage(ctx context.Context, path string) error {
	_, err := s.run(ctx, "restore", "--staged", "--", path)
	return err
}

// Commit records the staged set with the given message and returns the
// new commit.
func (s *Service) Commit(ctx context.Context, message string) (*CommitRecord, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("commit message must not be empty")
	}
	if _, err := s.run(ctx, "commit", "-m", message); err != nil {
		return nil, err
	}
	commits, err := s.Log(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, errors.Wrap(errors.ErrParse, "no commit record after commit")
	}
	return &commits[0], nil
}

// Log returns up to count commits from HEAD, skipping skip.
func (s *Service) Log(ctx context.Context, count, skip int) ([]CommitRecord, error) {
	out, err := s.run(ctx, "log",
		"-"+strconv.Itoa(count),
		"--skip="+strconv.Itoa(skip),
		"--format="+logFormat)
	if err != nil {
		if isEmptyHistory(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseLog(out)
}

// SearchLog returns up to count commits whose message matches query,
// case-insensitively.
func (s *Service) SearchLog(ctx context.Context, query string, count int) ([]CommitRecord, error) {
	out, err := s.run(ctx, "log",
		"-"+strconv.Itoa(count),
		"--format="+logFormat,
		"--grep="+query, "-i")
	if err != nil {
		if isEmptyHistory(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseLog(out)
}

// Head returns the full hash of HEAD.
func (s *Service) Head(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Branches lists local branches.
func (s *Service) Branches(ctx context.Context) ([]BranchRecord, error) {
	out, err := s.run(ctx, "branch", "--format="+branchFormat)
	if err != nil {
		return nil, err
	}
	return ParseBranches(out)
}

// CreateBranch creates a branch at from (HEAD when empty) without switching.
func (s *Service) CreateBranch(ctx context.Context, name, from string) error {
	args := []string{"branch", name}
	if from != "" {
		args = append(args, from)
	}
	_, err := s.run(ctx, args...)
	return err
}

// SwitchBranch checks out an existing branch.
func (s *Service) SwitchBranch(ctx context.Context, name string) error {
	_, err := s.run(ctx, "switch", name)
	return err
}

// RenameBranch renames the current branch.
func (s *Service) RenameBranch(ctx context.Context, newName string) error {
	_, err := s.run(ctx, "branch", "-m", newName)
	return err
}

// DeleteBranch deletes a branch. The currently checked-out branch is
// always refused regardless of merge status. The non-forced verb is used
// when the branch is fully merged into HEAD; the forced verb otherwise.
// Callers decide the confirmation tier with BranchMerged before calling.
func (s *Service) DeleteBranch(ctx context.Context, name string) error {
	current, err := s.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if name == current {
		return errors.Errorf("cannot delete the checked-out branch %q", name)
	}

	merged, err := s.BranchMerged(ctx, name)
	if err != nil {
		return err
	}
	flag := "-d"
	if !merged {
		flag = "-D"
	}
	_, err = s.run(ctx, "branch", flag, name)
	return err
}

// BranchMerged reports whether name is an ancestor of HEAD.
func (s *Service) BranchMerged(ctx context.Context, name string) (bool, error) {
	res, err := s.runner.Run(ctx, "merge-base", "--is-ancestor", name, "HEAD")
	if err != nil {
		return false, err
	}
	return res.Succeeded, nil
}

// CurrentBranch returns the checked-out branch name, empty on detached HEAD.
func (s *Service) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Reset moves HEAD to target with the given mode.
func (s *Service) Reset(ctx context.Context, target string, mode ResetMode) error {
	_, err := s.run(ctx, "reset", mode.Flag(), target)
	return err
}

// Restore discards working-tree changes to path, taking content from
// source when given (a commit or HEAD).
func (s *Service) Restore(ctx context.Context, path, source string) error {
	args := []string{"restore"}
	if source != "" {
		args = append(args, "--source", source)
	}
	args = append(args, "--", path)
	_, err := s.run(ctx, args...)
	return err
}

// Reflog returns up to count reference movements, most recent first.
func (s *Service) Reflog(ctx context.Context, count int) ([]ReflogEntry, error) {
	out, err := s.run(ctx, "reflog", "-"+strconv.Itoa(count), "--format="+reflogFormat)
	if err != nil {
		return nil, err
	}
	return ParseReflog(out)
}

// RecoverToBranch creates a rescue branch at the given commit without
// touching the working tree. This is the non-destructive recovery path.
func (s *Service) RecoverToBranch(ctx context.Context, hash, branch string) error {
	return s.CreateBranch(ctx, branch, hash)
}

// HardRecover hard-resets HEAD to the given reflog commit, discarding
// uncommitted work. Callers must gate this behind destructive confirmation.
func (s *Service) HardRecover(ctx context.Context, hash string) error {
	return s.Reset(ctx, hash, ResetHard)
}

// StagedDiff returns the parsed diff of the index against HEAD.
func (s *Service) StagedDiff(ctx context.Context) ([]FileDiff, error) {
	out, err := s.run(ctx, "diff", "--cached")
	if err != nil {
		return nil, err
	}
	return ParseDiff(out), nil
}

// StagedDiffText returns the raw diff text of the index against HEAD.
func (s *Service) StagedDiffText(ctx context.Context) (string, error) {
	return s.run(ctx, "diff", "--cached")
}

// UnstagedDiff returns the parsed diff of the working tree against the index.
func (s *Service) UnstagedDiff(ctx context.Context) ([]FileDiff, error) {
	out, err := s.run(ctx, "diff")
	if err != nil {
		return nil, err
	}
	return ParseDiff(out), nil
}

// CommitDiff returns the parsed diff introduced by a commit.
func (s *Service) CommitDiff(ctx context.Context, hash string) ([]FileDiff, error) {
	out, err := s.run(ctx, "diff", fmt.Sprintf("%s^..%s", hash, hash))
	if err != nil {
		return nil, err
	}
	return ParseDiff(out), nil
}

// StagedStats returns a summary of the staged diff.
func (s *Service) StagedStats(ctx context.Context) (DiffStats, error) {
	out, err := s.run(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return DiffStats{}, err
	}
	return ParseShortStat(out), nil
}

// Stashes lists stash entries, newest first.
func (s *Service) Stashes(ctx context.Context) ([]StashEntry, error) {
	out, err := s.run(ctx, "stash", "list", "--format="+stashFormat)
	if err != nil {
		return nil, err
	}
	return ParseStashList(out), nil
}

// StashPush stashes working-tree changes with an optional message.
func (s *Service) StashPush(ctx context.Context, message string) error {
	args := []string{"stash", "push"}
	if message != "" {
		args = append(args, "-m", message)
	}
	_, err := s.run(ctx, args...)
	return err
}

// StashPop applies and drops the stash at index.
func (s *Service) StashPop(ctx context.Context, index int) error {
	_, err := s.run(ctx, "stash", "pop", stashSelector(index))
	return err
}

// StashApply applies the stash at index, keeping it.
func (s *Service) StashApply(ctx context.Context, index int) error {
	_, err := s.run(ctx, "stash", "apply", stashSelector(index))
	return err
}

// StashDrop removes the stash at index.
func (s *Service) StashDrop(ctx context.Context, index int) error {
	_, err := s.run(ctx, "stash", "drop", stashSelector(index))
	return err
}

// StashClear removes every stash entry. Destructive.
func (s *Service) StashClear(ctx context.Context) error {
	_, err := s.run(ctx, "stash", "clear")
	return err
}

func stashSelector(index int) string {
	return fmt.Sprintf("stash@{%d}", index)
}

// isEmptyHistory matches git's complaint on repositories with no commits,
// which the log surfaces should treat as an empty window.
func isEmptyHistory(err error) bool {
	var cmdErr *errors.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Stderr, "does not have any commits yet") ||
		strings.Contains(cmdErr.Stderr, "unknown revision")
}
