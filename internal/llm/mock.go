package llm

import (
	"context"
	"sync"

	"github.com/hyperjump/eiyo/internal/models"
)

// MockGenerator returns a fixed response and records the prompts it receives.
// For tests and offline development.
type MockGenerator struct {
	mu       sync.Mutex
	Response string
	Err      error
	Prompts  []*models.Prompt
}

// NewMockGenerator creates a mock that answers every prompt with response.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (g *MockGenerator) Generate(_ context.Context, prompt *models.Prompt) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	g.Prompts = append(g.Prompts, prompt)
	return g.Response, nil
}

func (g *MockGenerator) Model() string {
	return "mock"
}

func (g *MockGenerator) Close() error {
	return nil
}

// LastPrompt returns the most recent prompt, or nil if none were received.
func (g *MockGenerator) LastPrompt() *models.Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Prompts) == 0 {
		return nil
	}
	return g.Prompts[len(g.Prompts)-1]
}
