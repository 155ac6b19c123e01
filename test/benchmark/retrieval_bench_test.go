// Package benchmark measures retrieval performance over the passage store.
package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/store"
	"github.com/hyperjump/eiyo/internal/vector"
	"github.com/hyperjump/eiyo/pkg/utils"
)

const benchDimensions = 384

func randomVector(rng *rand.Rand) []float32 {
	v := make([]float32, benchDimensions)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	utils.NormalizeL2(v)
	return v
}

func populateStore(b *testing.B, n int) *store.SQLiteStore {
	b.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"), benchDimensions)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { s.Close() })

	rng := rand.New(rand.NewSource(1))
	ctx := context.Background()
	const batch = 500
	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		passages := make([]*models.Passage, 0, end-start)
		for i := start; i < end; i++ {
			passages = append(passages, &models.Passage{
				ID:        fmt.Sprintf("bench-%06d", i),
				Content:   fmt.Sprintf("benchmark passage %d about nutrient intake", i),
				Embedding: randomVector(rng),
			})
		}
		if err := s.AddPassages(ctx, passages); err != nil {
			b.Fatal(err)
		}
	}
	return s
}

func BenchmarkMatchPassages(b *testing.B) {
	for _, n := range []int{1000, 10000} {
		b.Run(fmt.Sprintf("passages_%d", n), func(b *testing.B) {
			s := populateStore(b, n)
			rng := rand.New(rand.NewSource(2))
			query := randomVector(rng)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.MatchPassages(ctx, query, 5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkVectorIndexSearch(b *testing.B) {
	for _, n := range []int{1000, 10000, 100000} {
		b.Run(fmt.Sprintf("vectors_%d", n), func(b *testing.B) {
			idx, err := vector.NewMemoryIndex(benchDimensions)
			if err != nil {
				b.Fatal(err)
			}
			defer idx.Close()

			rng := rand.New(rand.NewSource(3))
			ctx := context.Background()
			ids := make([]string, n)
			vectors := make([][]float32, n)
			for i := 0; i < n; i++ {
				ids[i] = fmt.Sprintf("v-%06d", i)
				vectors[i] = randomVector(rng)
			}
			if err := idx.Add(ctx, ids, vectors); err != nil {
				b.Fatal(err)
			}
			query := randomVector(rng)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := idx.Search(ctx, query, 5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
