package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/output"
	"github.com/gitmate-sh/gitmate/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show working tree status",
	Long: `Show the current branch, its relationship to the upstream, and every
staged, unstaged, untracked, and conflicted path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(ctx context.Context) error {
	m, err := getManager(ctx)
	if err != nil {
		return err
	}
	snap := m.Snapshot()

	branch := snap.Branch
	if branch == "" {
		branch = "(detached HEAD)"
	}
	ui.Info("On branch %s%s", output.Cyan(branch), trackingSummary(snap))
	if snap.StashCount > 0 {
		ui.Info("%d stash entries ('gitmate stash list' to inspect)", snap.StashCount)
	}

	if len(snap.Conflicts) > 0 {
		ui.Warning("Unresolved conflicts:")
		for _, path := range snap.Conflicts {
			fmt.Fprintf(ui.ErrOut, "    %s\n", output.Red(path))
		}
	}

	if len(snap.Staged) == 0 && len(snap.Unstaged) == 0 && len(snap.Untracked) == 0 {
		ui.Success("Working tree clean")
		return nil
	}

	printFileSection("Staged changes", snap.Staged)
	printFileSection("Unstaged changes", snap.Unstaged)
	printFileSection("Untracked files", snap.Untracked)
	return nil
}

func trackingSummary(snap state.RepositorySnapshot) string {
	if snap.Upstream == "" {
		return ""
	}
	switch {
	case snap.Ahead > 0 && snap.Behind > 0:
		return fmt.Sprintf(", %d ahead and %d behind %s", snap.Ahead, snap.Behind, snap.Upstream)
	case snap.Ahead > 0:
		return fmt.Sprintf(", %d ahead of %s", snap.Ahead, snap.Upstream)
	case snap.Behind > 0:
		return fmt.Sprintf(", %d behind %s", snap.Behind, snap.Upstream)
	default:
		return fmt.Sprintf(", up to date with %s", snap.Upstream)
	}
}

func printFileSection(title string, entries []git.FileEntry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(ui.Out, "\n%s:\n", title)
	table := ui.Table([]string{"", "Path"})
	for _, e := range entries {
		path := e.Path
		if e.FromPath != "" {
			path = e.FromPath + " -> " + e.Path
		}
		table.Append([]string{output.KindColor(e.Kind), path})
	}
	table.Render()
}
