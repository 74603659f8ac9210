package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// MergeKind identifies which kind of history-joining operation is in
// progress, if any.
type MergeKind int

const (
	MergeNone MergeKind = iota
	MergeMerge
	MergeRebase
	MergeCherryPick
)

// String returns the kind's name.
func (k MergeKind) String() string {
	switch k {
	case MergeMerge:
		return "merge"
	case MergeRebase:
		return "rebase"
	case MergeCherryPick:
		return "cherry-pick"
	default:
		return "none"
	}
}

// MergeState reports the in-progress merge operation by probing the
// marker files git leaves in its directory.
func (s *Service) MergeState(ctx context.Context) (MergeKind, error) {
	out, err := s.run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return MergeNone, err
	}
	gitDir := strings.TrimSpace(out)

	if fileExists(filepath.Join(gitDir, "MERGE_HEAD")) {
		return MergeMerge, nil
	}
	if fileExists(filepath.Join(gitDir, "rebase-merge")) || fileExists(filepath.Join(gitDir, "rebase-apply")) {
		return MergeRebase, nil
	}
	if fileExists(filepath.Join(gitDir, "CHERRY_PICK_HEAD")) {
		return MergeCherryPick, nil
	}
	return MergeNone, nil
}

// MergeAbort abandons the in-progress operation and returns the
// repository to its pre-merge state.
func (s *Service) MergeAbort(ctx context.Context) error {
	kind, err := s.MergeState(ctx)
	if err != nil {
		return err
	}

	switch kind {
	case MergeMerge:
		_, err = s.run(ctx, "merge", "--abort")
	case MergeRebase:
		_, err = s.run(ctx, "rebase", "--abort")
	case MergeCherryPick:
		_, err = s.run(ctx, "cherry-pick", "--abort")
	default:
		return errors.New("no merge, rebase, or cherry-pick in progress")
	}
	return err
}

// MergeContinue records the resolved operation. Every conflict must be
// resolved and staged first. A plain merge concludes with a commit; the
// other kinds have their own continue verbs, run without an editor so
// the recorded message is kept as-is.
func (s *Service) MergeContinue(ctx context.Context) error {
	kind, err := s.MergeState(ctx)
	if err != nil {
		return err
	}

	switch kind {
	case MergeMerge:
		_, err = s.run(ctx, "commit", "--no-edit")
	case MergeRebase:
		_, err = s.run(ctx, "-c", "core.editor=true", "rebase", "--continue")
	case MergeCherryPick:
		_, err = s.run(ctx, "-c", "core.editor=true", "cherry-pick", "--continue")
	default:
		return errors.New("no merge, rebase, or cherry-pick in progress")
	}
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
