// Package models defines core data structures for passages, prompts, and chat exchanges.
package models

import "fmt"

// Passage is a retrieved unit of source text with metadata and a similarity score.
// The pipeline holds a read-only copy for the duration of one request; the store
// owns the record.
type Passage struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Similarity float64                `json:"similarity"`
	Embedding  []float32              `json:"-"`
}

// PageLabel returns the human-readable locator from the passage metadata.
// JSON numbers decode as float64, so integer page numbers are formatted without
// a fractional part. Returns "Unknown" when no page is recorded.
func (p *Passage) PageLabel() string {
	v, ok := p.Metadata["page"]
	if !ok || v == nil {
		return "Unknown"
	}
	switch page := v.(type) {
	case string:
		if page == "" {
			return "Unknown"
		}
		return page
	case float64:
		if page == float64(int64(page)) {
			return fmt.Sprintf("%d", int64(page))
		}
		return fmt.Sprintf("%g", page)
	case int:
		return fmt.Sprintf("%d", page)
	default:
		return fmt.Sprintf("%v", page)
	}
}

// PassageInput is the input for adding a passage to the store. The record is
// pre-chunked by the caller; when Embedding is absent the server computes it.
type PassageInput struct {
	ID        string                 `json:"id,omitempty"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Embedding []float32              `json:"embedding,omitempty"`
}

// Citation points from a generated answer back to a passage that was included in
// the context block sent to the generator. Index is the 1-based position of the
// passage in that block; it is not part of the wire format.
type Citation struct {
	Index      int     `json:"-"`
	Page       string  `json:"page"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
