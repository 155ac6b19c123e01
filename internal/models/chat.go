package models

import (
	"fmt"
	"strings"
)

// ChatRequest is a question for the answering pipeline. Embedding is optional:
// when present it is used as the query vector as-is (the caller guarantees it
// matches the store's dimensionality); when absent the server embeds Query.
type ChatRequest struct {
	Query     string    `json:"query"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Validate trims the query and rejects empty or whitespace-only input.
func (r *ChatRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}

// ChatResponse is the answer to a chat request together with the citations it
// is grounded on. Sources is capped for display; it never cites content that
// was not in the context block sent to the generator.
type ChatResponse struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
}
