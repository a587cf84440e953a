package domain

// WeightedLabelSet maps a canonical label to a non-negative accumulated
// weight. Built by merging possibly-duplicate raw labels: normalise the
// name, sum weights for duplicates, floor at 0.
type WeightedLabelSet map[string]float64

// Add merges a label into the set, summing weights for duplicates and
// flooring negative weights at 0. Empty labels are ignored.
func (s WeightedLabelSet) Add(label string, weight float64) {
	if label == "" {
		return
	}
	if weight < 0 {
		weight = 0
	}
	s[label] += weight
}

// TotalWeight returns the sum of all weights in the set.
func (s WeightedLabelSet) TotalWeight() float64 {
	var total float64
	for _, w := range s {
		total += w
	}
	return total
}
