package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/pkg/utils"
)

const testDims = 4

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "passages.db"), testDims)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func vec(values ...float32) []float32 {
	v := make([]float32, testDims)
	copy(v, values)
	utils.NormalizeL2(v)
	return v
}

func TestAddAndMatchPassages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	passages := []*models.Passage{
		{ID: "p1", Content: "Vitamin D supports calcium absorption.", Metadata: map[string]interface{}{"page": "12"}, Embedding: vec(1, 0, 0, 0)},
		{ID: "p2", Content: "Calcium builds bone mass.", Metadata: map[string]interface{}{"page": "31"}, Embedding: vec(0.9, 0.1, 0, 0)},
		{ID: "p3", Content: "Iron carries oxygen in blood.", Metadata: map[string]interface{}{"page": "55"}, Embedding: vec(0, 0, 1, 0)},
	}
	if err := s.AddPassages(ctx, passages); err != nil {
		t.Fatal(err)
	}
	if s.IndexSize() != 3 {
		t.Errorf("IndexSize: got %d, want 3", s.IndexSize())
	}

	matches, err := s.MatchPassages(ctx, vec(1, 0, 0, 0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches: got %d, want 2", len(matches))
	}
	if matches[0].ID != "p1" || matches[1].ID != "p2" {
		t.Errorf("order: got %s, %s, want p1, p2", matches[0].ID, matches[1].ID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Errorf("similarity not descending: %v, %v", matches[0].Similarity, matches[1].Similarity)
	}
	for _, m := range matches {
		if m.Similarity < 0 || m.Similarity > 1 {
			t.Errorf("similarity out of [0,1]: %v", m.Similarity)
		}
	}
	if matches[0].Metadata["page"] != "12" {
		t.Errorf("metadata round trip: got %v", matches[0].Metadata)
	}
}

func TestMatchPassagesEmptyStore(t *testing.T) {
	s := newTestStore(t)

	matches, err := s.MatchPassages(context.Background(), vec(1, 0, 0, 0), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("empty store should match nothing, got %d", len(matches))
	}
}

func TestMatchPassagesDimensionMismatch(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.MatchPassages(context.Background(), []float32{1, 0}, 5); err == nil {
		t.Error("expected error for wrong query dimension")
	}
}

func TestAddPassagesValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddPassages(ctx, []*models.Passage{{Content: "x", Embedding: vec(1)}}); err == nil {
		t.Error("expected error for empty ID")
	}
	if err := s.AddPassages(ctx, []*models.Passage{{ID: "p", Content: "x", Embedding: []float32{1, 2}}}); err == nil {
		t.Error("expected error for wrong embedding dimension")
	}
	if err := s.AddPassages(ctx, nil); err != nil {
		t.Errorf("adding nothing should be a no-op: %v", err)
	}
}

func TestIndexRebuiltOnReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passages.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, testDims)
	if err != nil {
		t.Fatal(err)
	}
	err = s.AddPassages(ctx, []*models.Passage{
		{ID: "p1", Content: "fiber aids digestion", Embedding: vec(0, 1, 0, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteStore(path, testDims)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if reopened.IndexSize() != 1 {
		t.Fatalf("IndexSize after reopen: got %d, want 1", reopened.IndexSize())
	}
	matches, err := reopened.MatchPassages(ctx, vec(0, 1, 0, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "p1" {
		t.Errorf("match after reopen: got %v", matches)
	}
}

func TestDeletePassage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddPassages(ctx, []*models.Passage{
		{ID: "p1", Content: "a", Embedding: vec(1, 0, 0, 0)},
	})
	if err := s.DeletePassage(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if s.IndexSize() != 0 {
		t.Errorf("IndexSize after delete: got %d, want 0", s.IndexSize())
	}
	if _, err := s.GetPassage(ctx, "p1"); err == nil {
		t.Error("deleted passage still readable")
	}
	count, _ := s.CountPassages(ctx)
	if count != 0 {
		t.Errorf("CountPassages after delete: got %d, want 0", count)
	}
}

func TestEmbeddingCodecRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 0, 42}
	out, err := decodeEmbedding(encodeEmbedding(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("length: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for malformed blob")
	}
}
