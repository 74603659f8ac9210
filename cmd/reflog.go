package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/output"
)

var (
	reflogCount  int
	reflogFilter string

	recoverBranch string
	recoverHard   bool
)

var reflogCmd = &cobra.Command{
	Use:   "reflog",
	Short: "Show recent HEAD movements",
	Long: `Show where HEAD has been. Every commit, reset, checkout, and merge
leaves an entry here, which makes the reflog the safety net for
recovering work that looks lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := getService(ctx)
		if err != nil {
			return err
		}

		entries, err := s.Reflog(ctx, reflogCount)
		if err != nil {
			return err
		}
		if reflogFilter != "" {
			entries = git.FilterReflog(entries, reflogFilter)
		}
		if len(entries) == 0 {
			ui.Info("No reflog entries to show")
			return nil
		}

		table := ui.Table([]string{"Entry", "Commit", "Action", "Subject"})
		for _, e := range entries {
			table.Append([]string{
				fmt.Sprintf("@{%d}", e.Index),
				output.Cyan(e.ShortHash),
				e.Action,
				e.Subject,
			})
		}
		table.Render()
		return nil
	},
}

var reflogRecoverCmd = &cobra.Command{
	Use:   "recover <entry>",
	Short: "Recover a commit from the reflog",
	Long: `Recover the commit at the given reflog index. By default the commit is
made reachable on a new rescue branch, which never touches the current
branch or working tree. With --hard, HEAD is reset to the commit
instead, discarding uncommitted work.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		var index int
		if _, err := fmt.Sscanf(args[0], "%d", &index); err != nil {
			return apperrors.Errorf("invalid reflog entry %q; pass the numeric index", args[0])
		}

		snap := m.Snapshot()
		var entry *git.ReflogEntry
		for i := range snap.Reflog {
			if snap.Reflog[i].Index == index {
				entry = &snap.Reflog[i]
				break
			}
		}
		if entry == nil {
			return apperrors.Errorf("reflog entry @{%d} not found", index)
		}

		branch := recoverBranch
		if branch == "" && !recoverHard {
			branch = fmt.Sprintf("rescue/%s", entry.ShortHash)
		}

		if err := m.RecoverFromReflog(ctx, *entry, branch, recoverHard); err != nil {
			return err
		}
		if recoverHard {
			ui.Success("Reset HEAD to %s", output.Cyan(entry.ShortHash))
		} else {
			ui.Success("Recovered %s onto branch %s", output.Cyan(entry.ShortHash), output.Cyan(branch))
		}
		return nil
	},
}

func init() {
	reflogCmd.Flags().IntVarP(&reflogCount, "count", "n", 30, "Number of entries to show")
	reflogCmd.Flags().StringVar(&reflogFilter, "filter", "", "Only show entries matching this text")
	reflogRecoverCmd.Flags().StringVar(&recoverBranch, "branch", "", "Name for the rescue branch")
	reflogRecoverCmd.Flags().BoolVar(&recoverHard, "hard", false, "Reset HEAD to the entry instead of branching")
	reflogCmd.AddCommand(reflogRecoverCmd)
	rootCmd.AddCommand(reflogCmd)
}
