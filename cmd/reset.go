package cmd

import (
	"github.com/spf13/cobra"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/output"
)

var (
	resetSoft bool
	resetHard bool
)

var resetCmd = &cobra.Command{
	Use:   "reset <commit>",
	Short: "Move the current branch to another commit",
	Long: `Move the current branch to the given commit.

The default (mixed) reset keeps your working tree and unstages
everything. --soft also keeps the index. --hard discards uncommitted
work entirely and requires typed confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		if resetSoft && resetHard {
			return apperrors.New("--soft and --hard are mutually exclusive")
		}
		mode := git.ResetMixed
		switch {
		case resetSoft:
			mode = git.ResetSoft
		case resetHard:
			mode = git.ResetHard
		}

		if err := m.Reset(ctx, args[0], mode); err != nil {
			return err
		}
		ui.Success("Reset (%s) to %s", mode, output.Cyan(args[0]))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetSoft, "soft", false, "Keep the index and working tree")
	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "Discard the index and working tree")
	rootCmd.AddCommand(resetCmd)
}
