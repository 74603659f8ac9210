package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/gitmate-sh/gitmate/internal/errors"
	"github.com/gitmate-sh/gitmate/internal/git"
	"github.com/gitmate-sh/gitmate/internal/guidance"
	"github.com/gitmate-sh/gitmate/internal/hints"
	"github.com/gitmate-sh/gitmate/internal/output"
	"github.com/gitmate-sh/gitmate/internal/state"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize
// or lazily by the getters below.
var (
	ui      *output.UI
	svc     *git.Service
	manager *state.Manager
	mentor  *guidance.Client

	repoPath string
	verbose  bool
	noAI     bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gitmate",
	Short: "A safety-first git companion for everyday repository work",
	Long: `gitmate wraps the git commands you use every day behind a consistent,
guard-railed surface. Destructive operations are classified and
confirmed before anything runs, errors come with plain-language hints,
and an optional AI mentor explains repository state, suggests commit
messages, and answers questions about git.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if mentor != nil {
		mentor.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cmdErr *apperrors.CommandError
		if apperrors.As(err, &cmdErr) {
			if hint := hints.Hint(cmdErr.Stderr); hint != "" {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.Context())
	}

	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path inside the repository to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noAI, "no-ai", false, "Disable AI guidance for this invocation")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/gitmate/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "gitmate"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GITMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	viper.SetDefault("git.timeout_secs", 30)
	viper.SetDefault("confirm_destructive", true)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "mentor")
	viper.SetDefault("ai.endpoint", "https://mentor.gitmate.sh/api/v1/assist")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("ai.timeout_secs", 30)
	viper.SetDefault("ai.diff_budget", guidance.DefaultDiffBudget)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// getService returns the shared git command layer, resolving the
// repository root on first call.
func getService(ctx context.Context) (*git.Service, error) {
	if svc != nil {
		return svc, nil
	}

	if err := git.LookupTool(); err != nil {
		return nil, err
	}
	root, err := git.ResolveRoot(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	ui.VerboseLog("repository root: %s", root)

	timeout := time.Duration(viper.GetInt("git.timeout_secs")) * time.Second
	svc = git.NewService(git.NewExecRunner(root).WithTimeout(timeout))
	return svc, nil
}

// autoApprove waves destructive operations through. Installed when the
// operator has set confirm_destructive=false in the config.
type autoApprove struct{}

func (autoApprove) Confirm(string) (bool, error) { return true, nil }

func (autoApprove) ConfirmTyped(string, string) (bool, error) { return true, nil }

// getManager returns the shared state manager, populating the initial
// snapshot on first call.
func getManager(ctx context.Context) (*state.Manager, error) {
	if manager != nil {
		return manager, nil
	}

	s, err := getService(ctx)
	if err != nil {
		return nil, err
	}

	var confirm state.Confirmer = ui
	if !viper.GetBool("confirm_destructive") {
		confirm = autoApprove{}
	}

	m := state.NewManager(s, confirm)
	if err := m.Refresh(ctx, state.ScopeFull); err != nil {
		return nil, err
	}
	manager = m
	return manager, nil
}

// getGuidance returns the shared guidance client. A disabled client is
// returned when AI is switched off; it still delivers fallback results.
func getGuidance() *guidance.Client {
	if mentor != nil {
		return mentor
	}

	if noAI || !viper.GetBool("ai.enabled") {
		mentor = guidance.NewDisabledClient()
		return mentor
	}

	apiKey := viper.GetString("ai.api_key")
	var provider guidance.Provider
	switch viper.GetString("ai.provider") {
	case "anthropic":
		provider = guidance.NewAnthropicProvider(apiKey, viper.GetString("ai.model"))
	default:
		timeout := time.Duration(viper.GetInt("ai.timeout_secs")) * time.Second
		provider = guidance.NewMentorProvider(viper.GetString("ai.endpoint"), apiKey, timeout)
	}
	mentor = guidance.NewClient(provider)
	return mentor
}

// guidanceWait caps how long a one-shot command waits for an answer.
const guidanceWait = 45 * time.Second

// awaitGuidance blocks until the result for id arrives, discarding
// results from superseded requests. On timeout it synthesizes a
// fallback result so callers always get an answer.
func awaitGuidance(client *guidance.Client, id string, kind guidance.Kind) guidance.Result {
	timer := time.NewTimer(guidanceWait)
	defer timer.Stop()

	for {
		select {
		case res, ok := <-client.Results():
			if !ok {
				return fallbackResult(id, kind)
			}
			if res.ID != id {
				continue
			}
			return res
		case <-timer.C:
			return fallbackResult(id, kind)
		}
	}
}

func fallbackResult(id string, kind guidance.Kind) guidance.Result {
	return guidance.Result{
		ID:       id,
		Kind:     kind,
		Response: guidance.Response{Text: guidance.Fallback(kind)},
		Fallback: true,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gitmate %s (commit %s, built %s)\n", buildVersion, buildCommit, buildDate)
	},
}
