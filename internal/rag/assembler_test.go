package rag

import (
	"strings"
	"testing"

	"github.com/hyperjump/eiyo/internal/models"
)

func TestAssemble(t *testing.T) {
	passages := []*models.Passage{
		{ID: "p1", Content: "Vitamin C is an antioxidant.", Metadata: map[string]interface{}{"page": "4"}, Similarity: 0.91},
		{ID: "p2", Content: "Citrus fruits are rich in vitamin C.", Similarity: 0.73},
	}

	block, citations := Assemble(passages)

	want := "Vitamin C is an antioxidant." + ContextSeparator + "Citrus fruits are rich in vitamin C."
	if block != want {
		t.Errorf("context block:\ngot  %q\nwant %q", block, want)
	}

	if len(citations) != 2 {
		t.Fatalf("citations: got %d, want 2", len(citations))
	}
	if citations[0].Index != 1 || citations[1].Index != 2 {
		t.Errorf("indices: got %d, %d", citations[0].Index, citations[1].Index)
	}
	if citations[0].Page != "4" {
		t.Errorf("page: got %q, want %q", citations[0].Page, "4")
	}
	if citations[1].Page != "Unknown" {
		t.Errorf("missing page should default to Unknown, got %q", citations[1].Page)
	}
	if citations[0].Similarity != 0.91 {
		t.Errorf("similarity: got %v", citations[0].Similarity)
	}

	// Citation order mirrors segment order in the block.
	segments := strings.Split(block, ContextSeparator)
	for i, c := range citations {
		if segments[i] != c.Content {
			t.Errorf("segment %d does not match citation content", i)
		}
	}
}

func TestAssembleSinglePassage(t *testing.T) {
	block, citations := Assemble([]*models.Passage{
		{ID: "p1", Content: "Protein supports muscle repair."},
	})
	if strings.Contains(block, "---") {
		t.Errorf("single passage should have no separator: %q", block)
	}
	if len(citations) != 1 {
		t.Errorf("citations: got %d, want 1", len(citations))
	}
}

func TestAssembleEmpty(t *testing.T) {
	block, citations := Assemble(nil)
	if block != "" || citations != nil {
		t.Errorf("empty input: got %q, %v", block, citations)
	}
}
