// Package guidance delivers advisory AI responses about repository state
// without ever blocking or failing a domain operation. Requests run on a
// worker goroutine; results come back on a channel the control loop
// polls, carrying the originating request identity for stale discard.
package guidance

import (
	"errors"
	"strings"
)

// Kind is the request type understood by the remote mentor endpoint.
type Kind string

const (
	KindExplain          Kind = "explain"
	KindCommitSuggestion Kind = "commit_suggestion"
	KindError            Kind = "error"
	KindRecommend        Kind = "recommend"
	KindLearn            Kind = "learn"
)

// Failure classification sentinels, usable with errors.Is.
var (
	// ErrTransient marks failures worth retrying: 5xx, timeouts,
	// connection and DNS errors.
	ErrTransient = errors.New("guidance: transient failure")
	// ErrPermanent marks failures not worth retrying: 4xx and
	// validation errors.
	ErrPermanent = errors.New("guidance: permanent failure")
	// ErrDisabled marks the feature being switched off.
	ErrDisabled = errors.New("guidance: disabled")
)

// DiffStats summarizes the staged diff for the sanitized context.
type DiffStats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// RepoContext is the sanitized repository metadata sent with a request.
// It carries names and counts only; the diff text is the single piece of
// file content and it is truncated to a fixed budget before transmission.
type RepoContext struct {
	Branch        string     `json:"branch,omitempty"`
	StagedFiles   []string   `json:"staged_files,omitempty"`
	UnstagedFiles []string   `json:"unstaged_files,omitempty"`
	DiffStats     *DiffStats `json:"diff_stats,omitempty"`
	Diff          string     `json:"diff,omitempty"`
}

// DefaultDiffBudget caps diff characters in the outbound payload.
const DefaultDiffBudget = 4000

// NewRepoContext builds a sanitized context, truncating diff to budget
// characters (DefaultDiffBudget when budget is zero or negative).
func NewRepoContext(branch string, staged, unstaged []string, stats *DiffStats, diff string, budget int) *RepoContext {
	if budget <= 0 {
		budget = DefaultDiffBudget
	}
	if len(diff) > budget {
		marker := "\n...(truncated)"
		if budget > len(marker) {
			diff = diff[:budget-len(marker)] + marker
		} else {
			diff = diff[:budget]
		}
	}
	return &RepoContext{
		Branch:        branch,
		StagedFiles:   staged,
		UnstagedFiles: unstaged,
		DiffStats:     stats,
		Diff:          diff,
	}
}

// Request is one guidance query.
type Request struct {
	Kind      Kind         `json:"type"`
	Context   *RepoContext `json:"context,omitempty"`
	Query     string       `json:"query,omitempty"`
	ErrorText string       `json:"error,omitempty"`
}

// Response is a delivered guidance answer.
type Response struct {
	Text        string
	Suggestions []string
}

// parseSuggestions extracts leading-dash bullet lines as an ordered
// suggestion list.
func parseSuggestions(text string) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			suggestions = append(suggestions, rest)
		}
	}
	return suggestions
}

// Fallback returns the static advisory message for a request kind, used
// when guidance is disabled or has failed entirely. Guidance absence
// must never block a domain operation.
func Fallback(kind Kind) string {
	switch kind {
	case KindCommitSuggestion:
		return "AI suggestions are unavailable. Write a short imperative subject (under 50 characters) describing what the change does."
	case KindError:
		return "AI explanations are unavailable. Read the git error above carefully; it usually names the conflicting file or ref."
	case KindExplain:
		return "AI explanations are unavailable. Run 'gitmate status' for a summary of the repository state."
	case KindRecommend:
		return "AI recommendations are unavailable. 'gitmate status' shows what is staged and what is not."
	case KindLearn:
		return "AI lessons are unavailable. The git reference at git-scm.com/docs covers every command gitmate wraps."
	default:
		return "AI guidance is unavailable right now."
	}
}
