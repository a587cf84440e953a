package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_SelfSimilarity(t *testing.T) {
	v := []float32{0.3, -0.5, 0.8, 0.1}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"both nil", nil, nil},
		{"a nil", nil, []float32{1, 2}},
		{"b empty", []float32{1, 2}, []float32{}},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"a zero norm", []float32{0, 0}, []float32{1, 2}},
		{"b zero norm", []float32{1, 2}, []float32{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Cosine(tt.a, tt.b))
		})
	}
}

func TestCosine_NegativeFlooredToZero(t *testing.T) {
	// Opposite vectors have cosine -1; similarity floors at 0.
	a := []float32{1, 0}
	b := []float32{-1, 0}
	assert.Zero(t, Cosine(a, b))
}

func TestCosine_KnownAngle(t *testing.T) {
	// Orthogonal vectors.
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	// 2D vector at a known angle from the x axis.
	assert.InDelta(t, 0.6, Cosine([]float32{1, 0}, []float32{0.6, 0.8}), 1e-6)
}
