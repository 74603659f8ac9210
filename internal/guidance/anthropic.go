package guidance

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider answers guidance requests directly against the
// Anthropic API, for operators who configure an API key instead of a
// mentor endpoint. It receives the same sanitized context the mentor
// endpoint would.
type AnthropicProvider struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewAnthropicProvider creates a provider with the given API key and model.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// systemPrompt returns the per-kind instruction.
func systemPrompt(kind Kind) string {
	switch kind {
	case KindCommitSuggestion:
		return `You suggest git commit messages. Given the staged file list and diff, return ONLY the commit message: an imperative subject line of at most 50 characters, optionally followed by a blank line and a short body. No markdown fencing, no explanation.`
	case KindError:
		return `You explain git errors to developers who are not git experts. Given a git error message and repository context, explain in plain language what went wrong and list the concrete commands that fix it, one per line prefixed with "- ".`
	case KindExplain:
		return `You explain git repository state. Given branch, staged and unstaged file lists, describe in a few plain sentences what state the repository is in and what the developer's options are.`
	case KindRecommend:
		return `You recommend the next git action. Given repository context and the developer's question, answer with a short recommendation followed by the exact commands, one per line prefixed with "- ".`
	case KindLearn:
		return `You teach one git concept at a time. Given a topic, explain it in a few short paragraphs with a concrete example, assuming the reader knows basic git commands.`
	default:
		return "You are a concise git assistant."
	}
}

// buildUserPrompt flattens the request into the user message.
func buildUserPrompt(req Request) string {
	var sb strings.Builder
	if req.Context != nil {
		ctx := req.Context
		if ctx.Branch != "" {
			fmt.Fprintf(&sb, "Branch: %s\n", ctx.Branch)
		}
		if len(ctx.StagedFiles) > 0 {
			fmt.Fprintf(&sb, "Staged files: %s\n", strings.Join(ctx.StagedFiles, ", "))
		}
		if len(ctx.UnstagedFiles) > 0 {
			fmt.Fprintf(&sb, "Unstaged files: %s\n", strings.Join(ctx.UnstagedFiles, ", "))
		}
		if ctx.DiffStats != nil {
			fmt.Fprintf(&sb, "Diff stats: %d files changed, %d insertions, %d deletions\n",
				ctx.DiffStats.FilesChanged, ctx.DiffStats.Insertions, ctx.DiffStats.Deletions)
		}
		if ctx.Diff != "" {
			fmt.Fprintf(&sb, "\nStaged diff:\n%s\n", ctx.Diff)
		}
	}
	if req.ErrorText != "" {
		fmt.Fprintf(&sb, "\nGit error:\n%s\n", req.ErrorText)
	}
	if req.Query != "" {
		fmt.Fprintf(&sb, "\nQuestion: %s\n", req.Query)
	}
	if sb.Len() == 0 {
		sb.WriteString("(no repository context)")
	}
	return sb.String()
}

// Query implements Provider.
func (p *AnthropicProvider) Query(ctx context.Context, req Request) (string, error) {
	msg, err := p.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req.Kind)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(req))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic API call: %v", ErrTransient, err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: no text content in API response", ErrPermanent)
	}
	return strings.TrimSpace(text), nil
}
