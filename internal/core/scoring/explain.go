package scoring

import (
	"sort"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// explainTopCosines caps the cosine list in an explain record.
const explainTopCosines = 3

// explainTopEntities caps the shared-entity list in an explain record.
const explainTopEntities = 5

// BuildExplain assembles the compact evidence summary for a scored
// pair: the first 3 top cosines, the 5 strongest shared entities ranked
// by the weaker of the two weights (descending, then name ascending),
// and the intersection of the normalised tag sets.
func BuildExplain(
	topCosines []float64,
	entitiesA, entitiesB domain.WeightedLabelSet,
	tagsA, tagsB []string,
) domain.ExplainRecord {
	rec := domain.ExplainRecord{}

	if len(topCosines) > explainTopCosines {
		topCosines = topCosines[:explainTopCosines]
	}
	if len(topCosines) > 0 {
		rec.TopCosines = append([]float64(nil), topCosines...)
	}

	rec.SharedEntities = sharedEntities(entitiesA, entitiesB)
	rec.SharedTags = sharedTags(tagsA, tagsB)

	return rec
}

// sharedEntities ranks the entity intersection by min weight descending
// then name ascending, keeping the top 5.
func sharedEntities(a, b domain.WeightedLabelSet) []domain.SharedEntity {
	var shared []domain.SharedEntity
	for name, wa := range a {
		wb, ok := b[name]
		if !ok {
			continue
		}
		w := wa
		if wb < w {
			w = wb
		}
		shared = append(shared, domain.SharedEntity{Name: name, Weight: w})
	}

	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Weight != shared[j].Weight {
			return shared[i].Weight > shared[j].Weight
		}
		return shared[i].Name < shared[j].Name
	})

	if len(shared) > explainTopEntities {
		shared = shared[:explainTopEntities]
	}
	return shared
}

// sharedTags returns the intersection of two normalised tag lists.
func sharedTags(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	seen := make(map[string]bool, len(a))
	var shared []string
	for _, t := range a {
		if setB[t] && !seen[t] {
			seen[t] = true
			shared = append(shared, t)
		}
	}
	return shared
}
