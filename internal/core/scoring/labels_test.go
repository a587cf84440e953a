package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

func TestWeightedJaccard_Identity(t *testing.T) {
	set := domain.WeightedLabelSet{"alpha": 2.0, "beta": 0.5}
	assert.InDelta(t, 1.0, WeightedJaccard(set, set), 1e-9)
}

func TestWeightedJaccard_BothEmpty(t *testing.T) {
	assert.Zero(t, WeightedJaccard(domain.WeightedLabelSet{}, domain.WeightedLabelSet{}))
	assert.Zero(t, WeightedJaccard(nil, nil))
}

func TestWeightedJaccard_Symmetric(t *testing.T) {
	a := domain.WeightedLabelSet{"x": 1, "y": 3}
	b := domain.WeightedLabelSet{"y": 2, "z": 1}
	assert.Equal(t, WeightedJaccard(a, b), WeightedJaccard(b, a))
}

func TestWeightedJaccard_PartialOverlap(t *testing.T) {
	a := domain.WeightedLabelSet{"x": 2, "y": 1}
	b := domain.WeightedLabelSet{"y": 3, "z": 1}

	// min sum = 0 (x) + 1 (y) + 0 (z) = 1
	// max sum = 2 (x) + 3 (y) + 1 (z) = 6
	assert.InDelta(t, 1.0/6.0, WeightedJaccard(a, b), 1e-9)
}

func TestWeightedJaccard_ZeroWeightUnion(t *testing.T) {
	a := domain.WeightedLabelSet{"x": 0}
	b := domain.WeightedLabelSet{"x": 0, "y": 0}
	assert.Zero(t, WeightedJaccard(a, b))
}

func TestNormalizeEntity(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Ada Lovelace", "ada-lovelace"},
		{"  lots   of space ", "lots-of-space"},
		{"snake_case_name", "snake-case-name"},
		{"Café Müller", "cafe-muller"},
		{"C3-PO!", "c3-po"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEntity(tt.raw), "raw=%q", tt.raw)
	}
}

func TestBuildEntitySet_MergesDuplicates(t *testing.T) {
	set := BuildEntitySet([]domain.EntityMention{
		{Name: "Ada Lovelace", Weight: 0.5},
		{Name: "ada   lovelace", Weight: 0.3},
		{Name: "Babbage", Weight: -1.0}, // floored to 0
		{Name: "!!!", Weight: 0.9},      // normalises to empty, dropped
	})

	assert.Len(t, set, 2)
	assert.InDelta(t, 0.8, set["ada-lovelace"], 1e-9)
	assert.Zero(t, set["babbage"])
}
