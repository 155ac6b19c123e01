package embedding

import (
	"fmt"

	"github.com/hyperjump/eiyo/internal/config"
)

// NewEmbedder creates an embedder for the configured provider.
// Supported providers: "local" (ONNX, default), "openai", "mock".
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "local", "":
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "openai":
		apiKey := config.ResolveAPIKey(cfg.APIKey, "OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key (embedding.api_key or OPENAI_API_KEY)")
		}
		return NewOpenAIEmbedder(apiKey, cfg.Model, cfg.Dimensions, cfg.CacheSize), nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: local, openai, mock)", cfg.Provider)
	}
}
