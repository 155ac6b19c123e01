package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/models"
)

// FireworksGenerator calls a Llama instruct deployment through the Fireworks
// OpenAI-compatible chat completions API. The fully rendered Llama prompt
// (turn markers included) is sent as a single user message; the deployment
// expects raw turn markers and applies no chat template of its own.
type FireworksGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewFireworksGenerator creates a generator against baseURL (the Fireworks
// inference endpoint by default, or any OpenAI-compatible server).
func NewFireworksGenerator(apiKey, baseURL, model string, temperature float64, maxTokens int, timeout time.Duration, logger *zap.Logger) *FireworksGenerator {
	return &FireworksGenerator{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		logger:      logger,
	}
}

// Generate performs a single completion call and returns the answer text.
func (g *FireworksGenerator) Generate(ctx context.Context, prompt *models.Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt.RenderLlama()),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	g.logger.Debug("generated answer",
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("answer_length", len(resp.Choices[0].Message.Content)),
	)
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (g *FireworksGenerator) Model() string {
	return g.model
}

// Close is a no-op; the HTTP client holds no resources needing cleanup.
func (g *FireworksGenerator) Close() error {
	return nil
}
