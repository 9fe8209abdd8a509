// Package ai generates commit messages from staged changes using an
// OpenAI-compatible chat completion endpoint.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sagescm/sage/config"
)

// maxDiffBytes caps how much of the staged diff goes into the prompt.
const maxDiffBytes = 16 * 1024

const systemPrompt = "You write git commit messages. Respond with a single " +
	"conventional-commits style subject line under 72 characters, " +
	"imperative mood, no quotes, no trailing period."

// Generator produces commit messages for staged diffs.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator builds a Generator from the AI section of the config.
func NewGenerator(cfg config.AIConfig) *Generator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Generator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// CommitMessage returns a one-line commit message for the staged diff.
func (g *Generator) CommitMessage(ctx context.Context, diff string, files []string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(diff, files)),
		},
		MaxCompletionTokens: openai.Int(128),
		Temperature:         openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("generate commit message: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate commit message: empty response")
	}
	message := strings.TrimSpace(resp.Choices[0].Message.Content)
	if message == "" {
		return "", fmt.Errorf("generate commit message: empty response")
	}
	// Keep only the subject if the model returned a full body anyway.
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = strings.TrimSpace(message[:i])
	}
	return strings.Trim(message, "\"'`"), nil
}

func buildPrompt(diff string, files []string) string {
	var b strings.Builder
	b.WriteString("Staged files:\n")
	for _, f := range files {
		b.WriteString("  ")
		b.WriteString(f)
		b.WriteByte('\n')
	}
	b.WriteString("\nDiff:\n")
	if len(diff) > maxDiffBytes {
		b.WriteString(diff[:maxDiffBytes])
		b.WriteString("\n... (diff truncated)\n")
	} else {
		b.WriteString(diff)
	}
	return b.String()
}
