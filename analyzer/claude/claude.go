package claude

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const maxOutputTokens = 1024

type ClaudeAnalyzer struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewClaudeAnalyzer(apiKey string, model string) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, text string, prompt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text to analyze")
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt + "\n\n" + text)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("model returned no text content")
	}

	return sb.String(), nil
}
