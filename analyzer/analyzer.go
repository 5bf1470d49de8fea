package analyzer

import "context"

// TextAnalyzer consumes a page's rendered plain text and produces generated
// analysis text (a summary, key points, etc., depending on the prompt).
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string, prompt string) (string, error)
}
