package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/output"
)

var (
	logCount  int
	logSkip   int
	logSearch string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long: `Show a window of commit history for the current branch. Use --search to
filter commits whose message matches a pattern.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := getService(ctx)
		if err != nil {
			return err
		}

		var commits []git.CommitRecord
		if logSearch != "" {
			commits, err = s.SearchLog(ctx, logSearch, logCount)
		} else {
			commits, err = s.Log(ctx, logCount, logSkip)
		}
		if err != nil {
			return err
		}
		if len(commits) == 0 {
			ui.Info("No commits to show")
			return nil
		}

		table := ui.Table([]string{"Commit", "Subject", "Author", "When", "Refs"})
		for _, c := range commits {
			table.Append([]string{
				output.Cyan(c.ShortHash),
				c.Subject,
				c.Author.Name,
				timeAgo(c.Timestamp),
				decorationSummary(c.Decorations),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logCount, "count", "n", 20, "Number of commits to show")
	logCmd.Flags().IntVar(&logSkip, "skip", 0, "Number of commits to skip")
	logCmd.Flags().StringVar(&logSearch, "search", "", "Only show commits whose message matches this pattern")
	rootCmd.AddCommand(logCmd)
}

func decorationSummary(decorations []git.Decoration) string {
	if len(decorations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(decorations))
	for _, d := range decorations {
		switch d.Kind {
		case git.DecorationHead:
			parts = append(parts, output.Green(d.Name))
		case git.DecorationTag:
			parts = append(parts, output.Yellow("tag: "+d.Name))
		default:
			parts = append(parts, d.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return t.Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
