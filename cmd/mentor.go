package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/guidance"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Ask the AI mentor about your repository",
	Long: `The mentor answers questions about the repository and about git
itself. Answers are advisory; gitmate never runs anything the mentor
says on its own.`,
}

var mentorExplainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the current repository state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mentorContextQuery(cmd.Context(), guidance.KindExplain, "")
	},
}

var mentorRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a next step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mentorContextQuery(cmd.Context(), guidance.KindRecommend, "")
	},
}

var mentorLearnCmd = &cobra.Command{
	Use:   "learn <topic>",
	Short: "Get a short lesson on a git topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mentorContextQuery(cmd.Context(), guidance.KindLearn, strings.Join(args, " "))
	},
}

var mentorErrorCmd = &cobra.Command{
	Use:   "error <message>",
	Short: "Explain a git error message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := getGuidance()
		id := client.Query(guidance.Request{
			Kind:      guidance.KindError,
			ErrorText: strings.Join(args, " "),
		})
		res := awaitGuidance(client, id, guidance.KindError)
		printGuidance(res)
		return nil
	},
}

var mentorHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the mentor service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noAI || !viper.GetBool("ai.enabled") {
			ui.Info("AI guidance is disabled")
			return nil
		}
		if viper.GetString("ai.provider") == "anthropic" {
			ui.Info("Provider 'anthropic' has no health endpoint; run 'gitmate mentor learn commits' to test it")
			return nil
		}

		timeout := time.Duration(viper.GetInt("ai.timeout_secs")) * time.Second
		provider := guidance.NewMentorProvider(viper.GetString("ai.endpoint"), viper.GetString("ai.api_key"), timeout)
		status, err := provider.HealthCheck(cmd.Context())
		if err != nil {
			return apperrors.Wrap(err, "mentor service unreachable")
		}
		ui.Success("Mentor service is %s", status)
		return nil
	},
}

// mentorContextQuery sends a request carrying the sanitized repository
// context, waits for the answer, and prints it.
func mentorContextQuery(ctx context.Context, kind guidance.Kind, query string) error {
	m, err := getManager(ctx)
	if err != nil {
		return err
	}
	snap := m.Snapshot()

	repoCtx := guidance.NewRepoContext(
		snap.Branch,
		entryPaths(snap.Staged),
		entryPaths(snap.Unstaged),
		nil,
		"",
		viper.GetInt("ai.diff_budget"),
	)

	client := getGuidance()
	id := client.Query(guidance.Request{Kind: kind, Context: repoCtx, Query: query})
	m.ExpectGuidance(id, snap.Branch)

	res := awaitGuidance(client, id, kind)
	if !m.AcceptGuidance(res.ID) {
		return apperrors.New("repository changed while waiting for the answer; try again")
	}
	printGuidance(res)
	return nil
}

func printGuidance(res guidance.Result) {
	if res.Fallback {
		ui.Warning("%s", res.Response.Text)
		return
	}
	if res.FromCache {
		ui.VerboseLog("answer served from cache")
	}
	fmt.Fprintln(ui.Out, res.Response.Text)
}

func init() {
	mentorCmd.AddCommand(mentorExplainCmd)
	mentorCmd.AddCommand(mentorRecommendCmd)
	mentorCmd.AddCommand(mentorLearnCmd)
	mentorCmd.AddCommand(mentorErrorCmd)
	mentorCmd.AddCommand(mentorHealthCmd)
	rootCmd.AddCommand(mentorCmd)
}
