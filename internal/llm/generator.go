// Package llm provides answer generator adapters over external model services.
package llm

import (
	"context"

	"github.com/hyperjump/eiyo/internal/models"
)

// Generator turns a grounded prompt into answer text. One attempt per call, no
// internal retry; decoding parameters favor faithfulness over creativity.
// Implementations render the prompt in the role-delimiter format their model
// family expects.
type Generator interface {
	Generate(ctx context.Context, prompt *models.Prompt) (string, error)
	Model() string
	Close() error
}
