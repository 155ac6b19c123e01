package vector

import "math"

// InnerProduct returns the inner product of two vectors (for normalized vectors
// equals cosine similarity).
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i] * b[i])
	}
	return dot
}

// CosineSimilarity returns cosine similarity between two normalized vectors,
// clamped to [0,1]. The clamp fixes the score convention the pipeline exposes
// to callers, which render it as a relevance percentage.
func CosineSimilarity(a, b []float32) float64 {
	return ClampScore(InnerProduct(a, b))
}

// ClampScore clamps a similarity score to [0,1].
func ClampScore(s float64) float64 {
	return math.Max(0, math.Min(1, s))
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v * v)
	}
	return math.Sqrt(sum)
}
