package scoring

import "github.com/custodia-labs/notelink/internal/core/domain"

// Aggregate selects how the top chunk cosines collapse into the single
// semantic signal.
type Aggregate string

// Aggregation modes.
const (
	// AggregateMean averages the top cosines (default).
	AggregateMean Aggregate = "mean"

	// AggregateMax takes the strongest cosine only.
	AggregateMax Aggregate = "max"
)

// Fusion weights. Semantic similarity dominates; entities are the most
// specific corroborating evidence; structural signals share a small
// residual weight.
const (
	semanticWeight   = 0.6
	entityWeight     = 0.2
	tagWeight        = 0.15
	structuralWeight = 0.05
)

// Guardrail: when both the semantic and entity signals are weak, the
// fused score is halved so tag or structural overlap alone cannot
// produce a confident link.
const (
	guardrailSemanticFloor = 0.35
	guardrailEntityFloor   = 0.20
	guardrailPenalty       = 0.5
)

// Classification thresholds. Boundaries are inclusive.
const (
	// HardThreshold is the minimum score for an automatic link.
	HardThreshold = 0.55

	// SoftThreshold is the minimum score for a suggested link.
	SoftThreshold = 0.45
)

// StructuralSignals are caller-supplied relationship hints whose
// upstream computation (title mentions, same-day edits, shared editing
// sessions) lives outside the scoring core. Each is clamped to [0, 1];
// absent signals default to 0.
type StructuralSignals struct {
	Reference float64
	Temporal  float64
	Session   float64
}

// FeatureInput carries everything needed to compute the per-pair
// feature vector.
type FeatureInput struct {
	// TopCosines are the strongest chunk-pair cosines for the pair.
	TopCosines []float64

	// EntitiesA and EntitiesB are the raw entity mentions per side.
	EntitiesA []domain.EntityMention
	EntitiesB []domain.EntityMention

	// TagsA and TagsB are the raw tags per side.
	TagsA []string
	TagsB []string

	// IDF optionally weights tags by corpus rarity; missing entries
	// default to 1.
	IDF map[string]float64

	// Structural carries the pass-through signals.
	Structural StructuralSignals

	// Aggregate selects mean (default) or max cosine aggregation.
	Aggregate Aggregate

	// Rules is the tag canonicalisation policy.
	Rules TagRules
}

// ComputeFeatures aggregates the raw signals into a bounded feature
// vector. Every output field is in [0, 1]; empty inputs yield zeros.
func ComputeFeatures(in FeatureInput) domain.FeatureScores {
	return domain.FeatureScores{
		Semantic:  aggregateCosines(in.TopCosines, in.Aggregate),
		Entity:    WeightedJaccard(BuildEntitySet(in.EntitiesA), BuildEntitySet(in.EntitiesB)),
		Tag:       TagScore(in.TagsA, in.TagsB, in.IDF, in.Rules),
		Reference: clamp01(in.Structural.Reference),
		Temporal:  clamp01(in.Structural.Temporal),
		Session:   clamp01(in.Structural.Session),
	}
}

// FinalLinkScore fuses the feature vector into a single link score in
// [0, 1], applying the weak-evidence guardrail.
func FinalLinkScore(f domain.FeatureScores) float64 {
	score := semanticWeight*f.Semantic +
		entityWeight*f.Entity +
		tagWeight*f.Tag +
		structuralWeight*(f.Reference+f.Temporal+f.Session)

	if f.Semantic < guardrailSemanticFloor && f.Entity < guardrailEntityFloor {
		score *= guardrailPenalty
	}

	return clamp01(score)
}

// Classify maps a fused score onto the three-way link decision.
func Classify(score float64) domain.LinkDecision {
	switch {
	case score >= HardThreshold:
		return domain.LinkHard
	case score >= SoftThreshold:
		return domain.LinkSoft
	default:
		return domain.LinkNone
	}
}

// aggregateCosines collapses the top cosines into one value, clamping
// each input to [0, 1] first. Empty input yields 0.
func aggregateCosines(cosines []float64, mode Aggregate) float64 {
	if len(cosines) == 0 {
		return 0
	}

	if mode == AggregateMax {
		var best float64
		for _, c := range cosines {
			if v := clamp01(c); v > best {
				best = v
			}
		}
		return best
	}

	var sum float64
	for _, c := range cosines {
		sum += clamp01(c)
	}
	return sum / float64(len(cosines))
}
