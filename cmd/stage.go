package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/output"
)

var stageAll bool

var stageCmd = &cobra.Command{
	Use:   "stage [path]...",
	Short: "Stage files for the next commit",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		paths := args
		if stageAll {
			snap := m.Snapshot()
			paths = nil
			for _, e := range snap.Unstaged {
				paths = append(paths, e.Path)
			}
			for _, e := range snap.Untracked {
				paths = append(paths, e.Path)
			}
		}
		if len(paths) == 0 {
			ui.Info("Nothing to stage")
			return nil
		}

		for _, path := range paths {
			if err := m.StageFile(ctx, path); err != nil {
				return err
			}
			ui.Success("Staged %s", output.Cyan(path))
		}
		return nil
	},
}

var unstageCmd = &cobra.Command{
	Use:   "unstage <path>...",
	Short: "Remove files from the next commit",
	Long: `Remove files from the index without touching the working tree.
The changes themselves are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		for _, path := range args {
			if err := m.UnstageFile(ctx, path); err != nil {
				return err
			}
			ui.Success("Unstaged %s", output.Cyan(path))
		}
		return nil
	},
}

func init() {
	stageCmd.Flags().BoolVarP(&stageAll, "all", "a", false, "Stage every changed and untracked file")
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(unstageCmd)
}
