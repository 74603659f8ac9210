package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/output"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Inspect or resolve an in-progress merge",
	Long: `Show whether a merge, rebase, or cherry-pick is in progress. The
subcommands conclude it: 'continue' records the resolved result once
every conflict is staged, 'abort' returns to the pre-merge state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := getService(ctx)
		if err != nil {
			return err
		}

		kind, err := s.MergeState(ctx)
		if err != nil {
			return err
		}
		if kind == git.MergeNone {
			ui.Info("No merge, rebase, or cherry-pick in progress")
			return nil
		}

		ui.Warning("A %s is in progress", kind)
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		snap := m.Snapshot()
		for _, path := range snap.Conflicts {
			ui.Info("  conflict: %s", output.Red(path))
		}
		if len(snap.Conflicts) == 0 {
			ui.Info("All conflicts resolved; run 'gitmate merge continue'")
		}
		return nil
	},
}

var mergeContinueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Record the resolved merge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		if err := m.MergeContinue(ctx); err != nil {
			return err
		}
		ui.Success("Merge recorded")
		return nil
	},
}

var mergeAbortCmd = &cobra.Command{
	Use:   "abort",
	Short: "Abandon the in-progress merge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		if err := m.MergeAbort(ctx); err != nil {
			return err
		}
		ui.Success("Returned to the pre-merge state")
		return nil
	},
}

func init() {
	mergeCmd.AddCommand(mergeContinueCmd)
	mergeCmd.AddCommand(mergeAbortCmd)
	rootCmd.AddCommand(mergeCmd)
}
