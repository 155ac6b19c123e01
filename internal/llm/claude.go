package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/models"
)

// ClaudeGenerator calls the Anthropic Messages API. Unlike the Fireworks
// backend it needs no turn markers: the prompt's system segment (with the
// context block) goes in the API's system field and the query in a user
// message, giving API-level separation between instructions and user input.
type ClaudeGenerator struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClaudeGenerator creates a generator for the given Claude model.
func NewClaudeGenerator(apiKey, model string, temperature float64, maxTokens int, timeout time.Duration, logger *zap.Logger) *ClaudeGenerator {
	return &ClaudeGenerator{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		logger:      logger,
	}
}

// Generate performs a single messages call and returns the answer text.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt *models.Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(g.maxTokens),
		Temperature: anthropic.Float(g.temperature),
		System: []anthropic.TextBlockParam{
			{Text: prompt.SystemWithContext()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	answer := sb.String()
	if answer == "" {
		return "", fmt.Errorf("messages response contained no text")
	}

	g.logger.Debug("generated answer",
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("answer_length", len(answer)),
	)
	return answer, nil
}

// Model returns the configured model identifier.
func (g *ClaudeGenerator) Model() string {
	return g.model
}

// Close is a no-op; the HTTP client holds no resources needing cleanup.
func (g *ClaudeGenerator) Close() error {
	return nil
}
