// Package store defines the passage store the answering pipeline retrieves from.
package store

import (
	"context"

	"github.com/hyperjump/eiyo/internal/models"
)

// PassageStore persists pre-chunked passages with their embeddings and answers
// nearest-neighbor queries over them. The pipeline only reads from it;
// AddPassages and DeletePassage exist for store maintenance.
type PassageStore interface {
	// MatchPassages returns at most matchCount passages most similar to
	// queryEmbedding, ordered by similarity descending. Zero matches is a
	// valid, non-error outcome.
	MatchPassages(ctx context.Context, queryEmbedding []float32, matchCount int) ([]*models.Passage, error)

	AddPassages(ctx context.Context, passages []*models.Passage) error
	GetPassage(ctx context.Context, id string) (*models.Passage, error)
	DeletePassage(ctx context.Context, id string) error
	CountPassages(ctx context.Context) (int64, error)

	// IndexSize returns the number of vectors currently searchable.
	IndexSize() int

	Close() error
}
