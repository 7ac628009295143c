package llm

import (
	"context"
	"fmt"

	"diet-planner/internal/config"
)

// NewClient returns the text generator selected by LLM_PROVIDER.
func NewClient(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	case "groq":
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
