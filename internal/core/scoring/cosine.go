package scoring

import "math"

// Cosine returns the cosine similarity of two vectors, clamped to
// [0, 1]. Negative cosines floor to 0: this is a similarity, not a
// correlation. Nil, empty, dimension-mismatched, and zero-norm inputs
// all yield 0 rather than an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
