// Package embedding provides query and passage embedding with selectable backends.
package embedding

import "context"

// Embedder produces L2-normalized vector embeddings for text. Embed rejects
// empty or whitespace-only input; availability failures surface as errors and
// are not retried here (retry policy belongs to the caller).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
