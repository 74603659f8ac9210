package cmd

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/guidance"
	"github.com/gitmate-sh/gitmate/internal/output"
	"github.com/gitmate-sh/gitmate/internal/state"
)

// Subjects longer than this draw a warning, not a rejection.
const subjectWarnLength = 50

var (
	commitMessage string
	commitSuggest bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the staged changes as a new commit",
	Long: `Create a commit from the staged changes. Provide a message with -m, or
use --suggest to have the AI mentor draft one from the staged diff.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, err := getManager(ctx)
		if err != nil {
			return err
		}

		snap := m.Snapshot()
		if len(snap.Staged) == 0 {
			return apperrors.New("nothing staged; use 'gitmate stage' first")
		}

		message := commitMessage
		if commitSuggest {
			message, err = suggestMessage(ctx, m)
			if err != nil {
				return err
			}
		}
		if message == "" {
			return apperrors.New("no commit message; pass -m or --suggest")
		}

		if n := subjectLength(message); n > subjectWarnLength {
			ui.Warning("Subject is %d characters; aim for %d or fewer", n, subjectWarnLength)
		}

		record, err := m.Commit(ctx, message)
		if err != nil {
			return err
		}
		ui.Success("Created commit %s %s", output.Cyan(record.ShortHash), record.Subject)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.Flags().BoolVar(&commitSuggest, "suggest", false, "Ask the AI mentor to draft the message")
	rootCmd.AddCommand(commitCmd)
}

// suggestMessage asks the mentor for a commit message drafted from the
// staged diff, then lets the operator accept or decline it.
func suggestMessage(ctx context.Context, m *state.Manager) (string, error) {
	s, err := getService(ctx)
	if err != nil {
		return "", err
	}

	diff, err := s.StagedDiffText(ctx)
	if err != nil {
		return "", err
	}
	stats, err := s.StagedStats(ctx)
	if err != nil {
		return "", err
	}

	snap := m.Snapshot()
	repoCtx := guidance.NewRepoContext(
		snap.Branch,
		entryPaths(snap.Staged),
		entryPaths(snap.Unstaged),
		&guidance.DiffStats{
			FilesChanged: stats.FilesChanged,
			Insertions:   stats.Insertions,
			Deletions:    stats.Deletions,
		},
		diff,
		viper.GetInt("ai.diff_budget"),
	)

	client := getGuidance()
	id := client.Query(guidance.Request{Kind: guidance.KindCommitSuggestion, Context: repoCtx})
	m.ExpectGuidance(id, snap.Branch)

	ui.VerboseLog("guidance request %s dispatched", id)
	res := awaitGuidance(client, id, guidance.KindCommitSuggestion)
	if !m.AcceptGuidance(res.ID) {
		return "", apperrors.New("repository changed while waiting for the suggestion; try again")
	}
	if res.Fallback {
		ui.Warning("%s", res.Response.Text)
		return "", apperrors.New("no suggestion available; pass -m instead")
	}

	message := res.Response.Text
	if len(res.Response.Suggestions) > 0 {
		message = res.Response.Suggestions[0]
	}

	ui.Info("Suggested message:")
	fmt.Fprintf(ui.Out, "\n    %s\n\n", message)
	ok, err := ui.Confirm("Use this message?")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrCancelled, "suggestion declined")
	}
	return message, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// subjectLength counts the subject line in characters, not bytes.
func subjectLength(message string) int {
	return utf8.RuneCountInString(firstLine(message))
}

func entryPaths(entries []git.FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}
