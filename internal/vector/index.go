// Package vector provides an in-memory vector index and similarity helpers.
package vector

import "context"

// Index defines vector storage and nearest-neighbor search.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Size() int
	Close() error
}

// Result is a single vector search hit (ID is the passage ID).
type Result struct {
	ID    string
	Score float64 // Inner product; cosine similarity for normalized vectors.
}
