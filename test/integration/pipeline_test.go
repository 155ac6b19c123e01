// Package integration tests the answering pipeline against real storage with
// the deterministic embedder, exercising the text embedding path end to end.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/config"
	"github.com/hyperjump/eiyo/internal/embedding"
	"github.com/hyperjump/eiyo/internal/llm"
	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/rag"
	"github.com/hyperjump/eiyo/internal/store"
)

const dimensions = 16

func setup(t *testing.T, contents []string) (*rag.Pipeline, *llm.MockGenerator) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "passages.db"), dimensions)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	embedder := embedding.NewMockEmbedder(dimensions)
	ctx := context.Background()

	passages := make([]*models.Passage, len(contents))
	for i, content := range contents {
		emb, err := embedder.Embed(ctx, content)
		if err != nil {
			t.Fatal(err)
		}
		passages[i] = &models.Passage{
			ID:        content[:8],
			Content:   content,
			Embedding: emb,
		}
	}
	if err := st.AddPassages(ctx, passages); err != nil {
		t.Fatal(err)
	}

	gen := llm.NewMockGenerator("answer")
	cfg := &config.RAGConfig{MatchCount: 5, MaxSources: 3}
	return rag.NewPipeline(embedder, st, gen, cfg, zap.NewNop()), gen
}

// A query whose text equals a stored passage embeds to an identical vector, so
// that passage must rank first with similarity 1.
func TestQueryTextEmbeddedAndMatched(t *testing.T) {
	contents := []string{
		"Vitamin D supports calcium absorption in the gut.",
		"Iron carries oxygen in the blood via hemoglobin.",
		"Dietary fiber supports regular bowel movements.",
	}
	pipeline, _ := setup(t, contents)

	resp, err := pipeline.Answer(context.Background(), &models.ChatRequest{Query: contents[1]})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Sources) == 0 {
		t.Fatal("expected sources")
	}
	top := resp.Sources[0]
	if top.Content != contents[1] {
		t.Errorf("top source: got %q, want the identical passage", top.Content)
	}
	if top.Similarity < 0.999 {
		t.Errorf("identical text should score ~1, got %v", top.Similarity)
	}
}

func TestRepeatedQueryIsDeterministic(t *testing.T) {
	contents := []string{
		"Calcium builds and maintains bone mass.",
		"Sodium intake affects blood pressure.",
	}
	pipeline, _ := setup(t, contents)
	ctx := context.Background()
	req := &models.ChatRequest{Query: "bone health and minerals"}

	first, err := pipeline.Answer(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pipeline.Answer(ctx, &models.ChatRequest{Query: "bone health and minerals"})
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Sources) != len(second.Sources) {
		t.Fatalf("source counts differ: %d vs %d", len(first.Sources), len(second.Sources))
	}
	for i := range first.Sources {
		if first.Sources[i].Content != second.Sources[i].Content {
			t.Errorf("source %d differs between identical queries", i)
		}
		if first.Sources[i].Similarity != second.Sources[i].Similarity {
			t.Errorf("source %d similarity differs between identical queries", i)
		}
	}
}

func TestSimilarityWithinBounds(t *testing.T) {
	contents := []string{
		"Protein requirements scale with body weight.",
		"Whole grains are a primary fiber source.",
		"Fatty fish provide vitamin D and omega-3s.",
	}
	pipeline, _ := setup(t, contents)

	resp, err := pipeline.Answer(context.Background(), &models.ChatRequest{Query: "completely unrelated astrophysics question"})
	if err != nil {
		t.Fatal(err)
	}
	for _, src := range resp.Sources {
		if src.Similarity < 0 || src.Similarity > 1 {
			t.Errorf("similarity out of [0,1]: %v", src.Similarity)
		}
	}
}
