package domain

// ScoreOptions tunes the scoring of a single note pair.
// Zero values select the engine defaults.
type ScoreOptions struct {
	// MinSimilarity is the chunk-match evidence threshold (default 0.7).
	MinSimilarity float64

	// TopK caps the evidence matches kept per pair (default 3).
	TopK int

	// MaxAggregate switches semantic aggregation from mean to max.
	MaxAggregate bool

	// Reference, Temporal, and Session are optional structural signals
	// supplied by the caller, clamped to [0, 1] before fusion.
	Reference float64
	Temporal  float64
	Session   float64
}

// RankOptions tunes corpus-wide candidate ranking.
type RankOptions struct {
	// Score carries the per-pair options.
	Score ScoreOptions

	// Limit caps the number of returned results; 0 means all.
	Limit int

	// MinDecision filters results: when set to LinkSoft only soft and
	// hard results are returned; when LinkHard, only hard.
	MinDecision LinkDecision
}
