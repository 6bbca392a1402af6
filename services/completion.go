package services

import (
	"context"
	"fmt"

	"debatedojo/config"
)

// CompletionResult is one model reply plus its reported token usage.
// TotalTokens is 0 when the provider did not report usage.
type CompletionResult struct {
	Text        string
	TotalTokens int
}

// CompletionClient is a single-shot text completion call against a hosted
// model. Implementations must be safe for concurrent use; one instance is
// shared across all requests.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (CompletionResult, error)
}

// NewCompletionClientFromConfig builds the provider selected in config.
func NewCompletionClientFromConfig(cfg *config.Config) (CompletionClient, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return NewOpenAIClient(cfg.Openai.ApiKey, cfg.Openai.Model), nil
	case "gemini":
		return NewGeminiClient(cfg.Gemini.ApiKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.LLM.Provider)
	}
}
