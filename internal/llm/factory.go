package llm

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/config"
)

// NewGenerator creates the answer generator selected by cfg.Provider.
func NewGenerator(cfg *config.LLMConfig, logger *zap.Logger) (Generator, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid llm timeout %q: %w", cfg.Timeout, err)
	}

	switch cfg.Provider {
	case "fireworks", "":
		apiKey := config.ResolveAPIKey(cfg.APIKey, "FIREWORKS_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("fireworks provider requires an API key (set llm.api_key or FIREWORKS_API_KEY)")
		}
		return NewFireworksGenerator(apiKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, timeout, logger), nil
	case "anthropic":
		apiKey := config.ResolveAPIKey(cfg.APIKey, "ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key (set llm.api_key or ANTHROPIC_API_KEY)")
		}
		return NewClaudeGenerator(apiKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, timeout, logger), nil
	case "mock":
		return NewMockGenerator("mock answer"), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
