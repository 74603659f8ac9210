package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/output"
)

var branchFrom string

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "List and manage branches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		snap := m.Snapshot()
		if len(snap.Branches) == 0 {
			ui.Info("No branches yet")
			return nil
		}

		table := ui.Table([]string{"", "Branch", "Tip", "Upstream"})
		for _, b := range snap.Branches {
			marker := ""
			name := b.Name
			if b.IsCurrent {
				marker = output.Green("*")
				name = output.Cyan(name)
			}
			upstream := "-"
			if b.Upstream != nil {
				upstream = b.Upstream.Name
				if b.Upstream.Ahead > 0 || b.Upstream.Behind > 0 {
					upstream = fmt.Sprintf("%s (+%d/-%d)", upstream, b.Upstream.Ahead, b.Upstream.Behind)
				}
			}
			table.Append([]string{marker, name, b.TipCommit, upstream})
		}
		table.Render()
		return nil
	},
}

var branchCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.CreateBranch(ctx, args[0], branchFrom); err != nil {
			return err
		}
		ui.Success("Created branch %s", output.Cyan(args[0]))
		return nil
	},
}

var branchSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Switch to another branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.SwitchBranch(ctx, args[0]); err != nil {
			return err
		}
		ui.Success("Switched to %s", output.Cyan(args[0]))
		return nil
	},
}

var branchRenameCmd = &cobra.Command{
	Use:   "rename <new-name>",
	Short: "Rename the current branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.RenameBranch(ctx, args[0]); err != nil {
			return err
		}
		ui.Success("Renamed current branch to %s", output.Cyan(args[0]))
		return nil
	},
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a branch",
	Long: `Delete a branch. Deleting a branch whose commits are not merged into
the current branch loses those commits and requires confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.DeleteBranch(ctx, args[0]); err != nil {
			return err
		}
		ui.Success("Deleted branch %s", output.Cyan(args[0]))
		return nil
	},
}

func init() {
	branchCreateCmd.Flags().StringVar(&branchFrom, "from", "", "Start point for the new branch (default HEAD)")
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchSwitchCmd)
	branchCmd.AddCommand(branchRenameCmd)
	branchCmd.AddCommand(branchDeleteCmd)
	rootCmd.AddCommand(branchCmd)
}
