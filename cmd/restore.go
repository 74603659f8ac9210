package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/output"
)

var restoreSource string

var restoreCmd = &cobra.Command{
	Use:   "restore <path>...",
	Short: "Discard working tree changes to files",
	Long: `Restore files in the working tree to their committed content,
discarding local modifications. This cannot be undone, so it asks for
confirmation first. Use --source to restore from a specific commit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		for _, path := range args {
			if err := m.RestorePath(ctx, path, restoreSource); err != nil {
				return err
			}
			ui.Success("Restored %s", output.Cyan(path))
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreSource, "source", "", "Commit to restore from (default HEAD)")
	rootCmd.AddCommand(restoreCmd)
}
