package scoring

import (
	"sort"
	"strings"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// DefaultMinSimilarity is the evidence threshold for chunk matches.
const DefaultMinSimilarity = 0.7

// DefaultTopK is the number of evidence matches kept per pair.
const DefaultTopK = 3

// matchTextLimit caps match text for display. Truncation happens after
// scoring and never affects similarity values.
const matchTextLimit = 160

// ChunkSet is one side of a cross-chunk comparison: the per-chunk
// embeddings (index-aligned with chunk order), the chunk texts, and the
// whole-note embedding used when chunk-level matching is impossible.
type ChunkSet struct {
	Vectors    []domain.Embedding
	Texts      []string
	NoteVector domain.Embedding
}

// MatchOptions tunes cross-chunk matching. Zero values select the
// defaults.
type MatchOptions struct {
	// MinSimilarity is the minimum cosine for a pair to count as
	// evidence (default 0.7).
	MinSimilarity float64

	// TopK is the maximum number of matches returned (default 3).
	TopK int
}

// MatchResult is the outcome of comparing two notes' chunk sets.
type MatchResult struct {
	// BestSimilarity is the maximum cosine over the compared matrix,
	// or the note-level cosine when Fallback is true.
	BestSimilarity float64

	// Matches are the evidence pairs at or above the threshold,
	// strongest first, at most TopK. Empty when Fallback is true.
	Matches []domain.Match

	// Fallback reports that chunk-level matching was impossible (no
	// shared dimension, or a side without usable chunk vectors) and
	// BestSimilarity came from the whole-note embeddings instead.
	Fallback bool
}

// MatchChunks computes the cross product of chunk cosine similarities
// between two notes, restricted to the first embedding dimension the
// two sides share. It returns the running maximum as the document-level
// semantic proxy plus the top-K evidence pairs.
//
// When the sides share no dimension, or either side has no usable chunk
// vectors, it falls back to a single note-level cosine with no match
// list. The fallback rule is load-bearing: it decides which notes are
// linkable at all, so both conditions are checked exactly.
func MatchChunks(a, b ChunkSet, opts MatchOptions) MatchResult {
	minSim := opts.MinSimilarity
	if minSim <= 0 {
		minSim = DefaultMinSimilarity
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	dim := sharedDimension(a.Vectors, b.Vectors)
	if dim == 0 {
		return MatchResult{
			BestSimilarity: Cosine(a.NoteVector.Vector, b.NoteVector.Vector),
			Fallback:       true,
		}
	}

	var best float64
	var candidates []domain.Match

	for i, va := range a.Vectors {
		if va.Dimension != dim {
			continue
		}
		for j, vb := range b.Vectors {
			if vb.Dimension != dim {
				continue
			}

			sim := Cosine(va.Vector, vb.Vector)
			if sim > best {
				best = sim
			}
			if sim >= minSim {
				candidates = append(candidates, domain.Match{
					Similarity:  sim,
					SourceOrder: i,
					SourceText:  truncateMatchText(chunkText(a.Texts, i)),
					TargetOrder: j,
					TargetText:  truncateMatchText(chunkText(b.Texts, j)),
				})
			}
		}
	}

	// Stable: ties keep A-then-B discovery order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return MatchResult{BestSimilarity: best, Matches: candidates}
}

// sharedDimension returns the first non-empty vector dimension on side
// a that side b also carries, or 0 when the sides are incompatible.
func sharedDimension(a, b []domain.Embedding) int {
	dimsB := make(map[int]bool, len(b))
	for _, v := range b {
		if !v.IsZero() {
			dimsB[v.Dimension] = true
		}
	}
	if len(dimsB) == 0 {
		return 0
	}

	for _, v := range a {
		if !v.IsZero() && dimsB[v.Dimension] {
			return v.Dimension
		}
	}
	return 0
}

// chunkText returns the text for a chunk index, tolerating short or
// missing text slices.
func chunkText(texts []string, i int) string {
	if i < 0 || i >= len(texts) {
		return ""
	}
	return texts[i]
}

// truncateMatchText collapses whitespace and caps the text for display.
func truncateMatchText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= matchTextLimit {
		return s
	}

	runes := []rune(s)
	if len(runes) <= matchTextLimit {
		return s
	}
	return string(runes[:matchTextLimit])
}
