package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/eiyo/internal/embedding"
	"github.com/hyperjump/eiyo/internal/models"
)

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"fiber"}, "fiber"},
		{"multi word", []string{"vitamin", "D", "intake"}, "vitamin D intake"},
		{"quoted single arg", []string{"vitamin D intake"}, "vitamin D intake"},
		{"whitespace only", []string{" ", " "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuestion(tt.args); got != tt.want {
				t.Errorf("buildQuestion(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestAskArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no flags", []string{"vitamin", "D"}, []string{"vitamin", "D"}},
		{"flags first", []string{"-output", "json", "vitamin"}, []string{"-output", "json", "vitamin"}},
		{"flags after question", []string{"vitamin", "-output", "json"}, []string{"-output", "json", "vitamin"}},
		{"empty", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := askArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("askArgsReorder(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestReadPassageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passages.json")
	content := `[
		{"id": "p1", "content": "Vitamin C is water soluble.", "metadata": {"page": 4}},
		{"content": "Calcium builds bone mass."}
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	inputs, err := readPassageFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("inputs: got %d, want 2", len(inputs))
	}
	if inputs[0].ID != "p1" || inputs[1].ID != "" {
		t.Errorf("ids: got %q, %q", inputs[0].ID, inputs[1].ID)
	}
	if inputs[0].Metadata["page"] != float64(4) {
		t.Errorf("metadata: got %v", inputs[0].Metadata)
	}
}

func TestReadPassageFileErrors(t *testing.T) {
	if _, err := readPassageFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("{not an array}"), 0644)
	if _, err := readPassageFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestPreparePassages(t *testing.T) {
	embedder := embedding.NewMockEmbedder(8)
	pre := make([]float32, 8)
	pre[0] = 1

	inputs := []*models.PassageInput{
		{ID: "p1", Content: "already embedded", Embedding: pre},
		{Content: "needs embedding"},
	}
	passages, err := preparePassages(context.Background(), inputs, embedder)
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 2 {
		t.Fatalf("passages: got %d", len(passages))
	}
	if passages[0].Embedding[0] != 1 {
		t.Error("supplied embedding was replaced")
	}
	if len(passages[1].Embedding) != 8 {
		t.Errorf("missing embedding not computed: %d dims", len(passages[1].Embedding))
	}
	if passages[1].ID == "" {
		t.Error("missing ID not generated")
	}
}

func TestPreparePassagesEmptyContent(t *testing.T) {
	embedder := embedding.NewMockEmbedder(8)
	_, err := preparePassages(context.Background(), []*models.PassageInput{{Content: "  "}}, embedder)
	if err == nil {
		t.Error("expected error for empty content")
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "debug: true\nserver:\n  port: 9999\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %q, want %q", resolved, path)
	}
	if !cfg.Debug || cfg.Server.Port != 9999 {
		t.Errorf("config not applied: debug=%v port=%d", cfg.Debug, cfg.Server.Port)
	}
}
