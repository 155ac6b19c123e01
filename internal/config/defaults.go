package config

// Default model identifiers. The Fireworks model is the Llama 3.1 instruct
// deployment the prompt renderer's turn markers are written for.
const (
	DefaultFireworksBaseURL = "https://api.fireworks.ai/inference/v1"
	DefaultFireworksModel   = "accounts/fireworks/models/llama-v3p1-8b-instruct"
	DefaultAnthropicModel   = "claude-sonnet-4-20250514"
	DefaultOpenAIEmbedModel = "text-embedding-3-small"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/eiyo/data/db/passages.db"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "local"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/eiyo/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = DefaultOpenAIEmbedModel
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "fireworks"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = DefaultFireworksBaseURL
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "anthropic":
			cfg.LLM.Model = DefaultAnthropicModel
		default:
			cfg.LLM.Model = DefaultFireworksModel
		}
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Timeout == "" {
		cfg.LLM.Timeout = "60s"
	}
	if cfg.RAG.MatchCount == 0 {
		cfg.RAG.MatchCount = 5
	}
	if cfg.RAG.MaxSources == 0 {
		cfg.RAG.MaxSources = 3
	}
}
