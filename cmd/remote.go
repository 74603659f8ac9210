package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/output"
)

var (
	pushRemote  string
	pushForce   bool
	fetchRemote string
	pullRemote  string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the current branch to its remote",
	Long: `Push the current branch. The first push of a new branch also sets the
upstream tracking relationship. --force replaces the remote branch with
your local history and requires confirmation; the lease form is used, so
a remote branch that moved since your last fetch is still protected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		branch := m.Snapshot().Branch
		if err := m.Push(ctx, pushRemote, pushForce); err != nil {
			return err
		}

		snap := m.Snapshot()
		if snap.Upstream != "" {
			ui.Success("Pushed %s to %s", output.Cyan(branch), output.Cyan(snap.Upstream))
		} else {
			ui.Success("Pushed %s to %s", output.Cyan(branch), output.Cyan(pushRemote))
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download remote history without changing your branches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		if err := m.Fetch(ctx, fetchRemote); err != nil {
			return err
		}

		snap := m.Snapshot()
		switch {
		case snap.Behind > 0:
			ui.Info("Fetched %s; %s is %d commit(s) behind %s", fetchRemote,
				output.Cyan(snap.Branch), snap.Behind, output.Cyan(snap.Upstream))
		default:
			ui.Success("Fetched %s; %s is up to date", fetchRemote, output.Cyan(snap.Branch))
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Rebase the current branch on top of its remote branch",
	Long: `Pull with rebase, keeping local history linear. A conflict leaves the
repository in a rebase-in-progress state; resolve the files, stage them,
and run 'gitmate merge continue', or back out with 'gitmate merge abort'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		if err := m.Pull(ctx, pullRemote); err != nil {
			return err
		}
		ui.Success("Pulled %s; %s is up to date", pullRemote, output.Cyan(m.Snapshot().Branch))
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushRemote, "remote", "origin", "Remote to push to")
	pushCmd.Flags().BoolVar(&pushForce, "force", false, "Replace the remote branch with your local history")
	fetchCmd.Flags().StringVar(&fetchRemote, "remote", "origin", "Remote to fetch from")
	pullCmd.Flags().StringVar(&pullRemote, "remote", "origin", "Remote to pull from")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pullCmd)
}
