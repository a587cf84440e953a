package domain

// LinkDecision is the three-way classification of a scored note pair.
type LinkDecision string

// Link decisions, ordered by confidence.
const (
	// LinkHard means the pair should be linked automatically.
	LinkHard LinkDecision = "hard"

	// LinkSoft means the pair is a suggestion for the user to confirm.
	LinkSoft LinkDecision = "soft"

	// LinkNone means the pair should not be linked.
	LinkNone LinkDecision = "none"
)

// FeatureScores holds the per-pair similarity signals after clamping.
// Every field is in [0, 1]. It is a pure value type recomputed per pair;
// the core never caches it.
type FeatureScores struct {
	// Semantic is the aggregated chunk-cosine signal.
	Semantic float64 `json:"semantic"`

	// Entity is the weighted Jaccard over entity sets.
	Entity float64 `json:"entity_score"`

	// Tag is the blended tag Jaccard / BM25 signal.
	Tag float64 `json:"tag_score"`

	// Reference is a caller-supplied structural signal
	// (e.g. one note's title mentioned in the other).
	Reference float64 `json:"reference_score"`

	// Temporal is a caller-supplied structural signal
	// (e.g. both notes edited the same day).
	Temporal float64 `json:"temporal_score"`

	// Session is a caller-supplied structural signal
	// (e.g. both notes touched in one editing session).
	Session float64 `json:"session_score"`
}

// Match is one piece of chunk-level evidence for a link: the most
// similar fragment pair found between two notes. Ephemeral; the core
// never persists it.
type Match struct {
	// Similarity is the cosine similarity of the two chunks, in [0, 1].
	Similarity float64 `json:"similarity"`

	// SourceOrder is the chunk order on the source note.
	SourceOrder int `json:"sourceChunkOrder"`

	// SourceText is the source chunk text, truncated for display.
	SourceText string `json:"sourceText"`

	// TargetOrder is the chunk order on the target note.
	TargetOrder int `json:"targetChunkOrder"`

	// TargetText is the target chunk text, truncated for display.
	TargetText string `json:"targetText"`
}

// SharedEntity is an entity present on both sides of a pair, ranked
// by the weaker of the two weights.
type SharedEntity struct {
	// Name is the normalised entity name.
	Name string `json:"name"`

	// Weight is min(weightA, weightB).
	Weight float64 `json:"weight"`
}

// ExplainRecord is a compact summary of why two notes were linked,
// assembled so callers can present the evidence without re-deriving it.
type ExplainRecord struct {
	// TopCosines are the strongest chunk cosines, at most 3.
	TopCosines []float64 `json:"topCosines"`

	// SharedEntities are the strongest shared entities, at most 5,
	// sorted by weight descending then name ascending.
	SharedEntities []SharedEntity `json:"sharedEntities"`

	// SharedTags is the intersection of the normalised tag sets.
	// Order is unspecified.
	SharedTags []string `json:"sharedTags"`
}

// LinkResult is the scored relationship between a target note and one
// candidate, the unit returned to callers.
type LinkResult struct {
	// CandidateID identifies the candidate note.
	CandidateID string `json:"candidateId"`

	// Score is the fused link score in [0, 1].
	Score float64 `json:"score"`

	// Decision is the classification of Score.
	Decision LinkDecision `json:"decision"`

	// Features are the clamped per-signal scores behind Score.
	Features FeatureScores `json:"features"`

	// Explain summarises the evidence for presentation.
	Explain ExplainRecord `json:"explain"`

	// Matches are the best chunk-level fragment pairs, strongest first.
	Matches []Match `json:"matches"`
}

// Link is a persisted relationship between two notes, recorded when a
// decision is accepted.
type Link struct {
	// SourceID is the note the link originates from.
	SourceID string

	// TargetID is the note the link points to.
	TargetID string

	// Score is the fused score at the time the link was recorded.
	Score float64

	// Decision is the classification at the time the link was recorded.
	Decision LinkDecision
}
