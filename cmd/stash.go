package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/output"
)

var stashMessage string

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Shelve and restore working tree changes",
}

var stashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stash entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := getService(ctx)
		if err != nil {
			return err
		}

		stashes, err := s.Stashes(ctx)
		if err != nil {
			return err
		}
		if len(stashes) == 0 {
			ui.Info("No stashes")
			return nil
		}

		table := ui.Table([]string{"Stash", "Branch", "Message"})
		for _, entry := range stashes {
			table.Append([]string{
				output.Cyan(entry.Selector),
				entry.Branch,
				entry.Message,
			})
		}
		table.Render()
		return nil
	},
}

var stashPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Stash the current working tree changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.StashPush(ctx, stashMessage); err != nil {
			return err
		}
		ui.Success("Stashed working tree changes")
		return nil
	},
}

var stashPopCmd = &cobra.Command{
	Use:   "pop [index]",
	Short: "Apply the stash and remove it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		index, err := stashIndexArg(args)
		if err != nil {
			return err
		}
		if err := m.StashPop(ctx, index); err != nil {
			return err
		}
		ui.Success("Applied and dropped stash@{%d}", index)
		return nil
	},
}

var stashApplyCmd = &cobra.Command{
	Use:   "apply [index]",
	Short: "Apply the stash and keep it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		index, err := stashIndexArg(args)
		if err != nil {
			return err
		}
		if err := m.StashApply(ctx, index); err != nil {
			return err
		}
		ui.Success("Applied stash@{%d}", index)
		return nil
	},
}

var stashDropCmd = &cobra.Command{
	Use:   "drop [index]",
	Short: "Delete a stash entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		index, err := stashIndexArg(args)
		if err != nil {
			return err
		}
		if err := m.StashDrop(ctx, index); err != nil {
			return err
		}
		ui.Success("Dropped stash@{%d}", index)
		return nil
	},
}

var stashClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stash entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}
		if err := m.StashClear(ctx); err != nil {
			return err
		}
		ui.Success("Cleared all stashes")
		return nil
	},
}

func stashIndexArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return 0, apperrors.Errorf("invalid stash index %q", args[0])
	}
	return index, nil
}

func init() {
	stashPushCmd.Flags().StringVarP(&stashMessage, "message", "m", "", "Message describing the stash")
	stashCmd.AddCommand(stashListCmd)
	stashCmd.AddCommand(stashPushCmd)
	stashCmd.AddCommand(stashPopCmd)
	stashCmd.AddCommand(stashApplyCmd)
	stashCmd.AddCommand(stashDropCmd)
	stashCmd.AddCommand(stashClearCmd)
	rootCmd.AddCommand(stashCmd)
}
