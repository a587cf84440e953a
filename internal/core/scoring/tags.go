package scoring

import (
	"strings"
	"unicode"
)

// maxTags caps the normalised tag list per note.
const maxTags = 10

// maxTagWords rejects tags longer than this many hyphen-joined words.
const maxTagWords = 3

// BM25 parameters for the tag metric. Tag lists are short, so document
// length is normalised against a fixed heuristic average of 6 tags.
const (
	bm25K1    = 1.2
	bm25B     = 0.75
	bm25AvgDL = 6.0
)

// tagScoreJaccardWeight and tagScoreBM25Weight fix the blend between
// the two tag signals; squashK bounds the BM25 contribution.
const (
	tagScoreJaccardWeight = 0.7
	tagScoreBM25Weight    = 0.3
	squashK               = 3.0
)

// TagRules is the injectable canonicalisation policy applied after the
// structural normalisation pipeline. Both tables operate on already
// normalised tags and are expected to be small and hand-curated.
type TagRules struct {
	// Synonyms rewrites a normalised tag to a preferred spelling,
	// e.g. "golang" -> "go".
	Synonyms map[string]string

	// Stopwords removes generic, non-discriminative tags entirely.
	Stopwords []string
}

// DefaultTagRules returns the built-in synonym table and stop-list.
// Callers normally override these from configuration.
func DefaultTagRules() TagRules {
	return TagRules{
		Synonyms: map[string]string{
			"golang":  "go",
			"js":      "javascript",
			"ml":      "machine-learning",
			"k8s":     "kubernetes",
			"postgre": "postgres",
		},
		Stopwords: []string{
			"misc", "notes", "note", "todo", "general", "stuff",
			"untitled", "draft", "random",
		},
	}
}

// NormalizeTag canonicalises a single raw tag: lowercase, Unicode
// decomposition with combining marks stripped, non [a-z0-9-] runs and
// underscores replaced with spaces, whitespace collapsed, words joined
// with hyphens, repeated hyphens collapsed, edges trimmed. Tags that
// normalise to more than 3 words return "" (discarded). The pipeline is
// idempotent: NormalizeTag(NormalizeTag(t)) == NormalizeTag(t).
func NormalizeTag(raw string) string {
	s := foldASCII(strings.ToLower(raw))
	s = strings.ReplaceAll(s, "_", " ")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		default:
			sb.WriteByte(' ')
		}
	}

	joined := strings.Join(strings.Fields(sb.String()), "-")
	joined = trimHyphens(collapseHyphens(joined))

	if joined == "" {
		return ""
	}
	if strings.Count(joined, "-")+1 > maxTagWords {
		return ""
	}
	return joined
}

// Apply runs the full tag pipeline over raw tags: normalise each tag,
// rewrite synonyms, drop stop-listed and discarded tags, deduplicate
// preserving first-seen order, and cap the result at 10 tags.
func (r TagRules) Apply(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	stop := make(map[string]bool, len(r.Stopwords))
	for _, s := range r.Stopwords {
		stop[s] = true
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))

	for _, t := range raw {
		tag := NormalizeTag(t)
		if tag == "" {
			continue
		}
		if canonical, ok := r.Synonyms[tag]; ok {
			tag = canonical
		}
		if stop[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// TagJaccard returns the plain (unweighted) Jaccard similarity of two
// normalised tag lists. Two empty lists score 0.
func TagJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	var inter int
	for t := range setA {
		if setB[t] {
			inter++
		}
	}

	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TagBM25 scores the overlap of two normalised tag lists with a
// binary-presence BM25 variant: term frequency is 1 for every shared
// tag, and document length is normalised against the fixed average tag
// count. Missing per-tag IDF values default to 1. The result is
// unbounded but small; callers must squash it before mixing with
// bounded signals.
func TagBM25(query, doc []string, idf map[string]float64) float64 {
	if len(query) == 0 || len(doc) == 0 {
		return 0
	}

	docSet := make(map[string]bool, len(doc))
	for _, t := range doc {
		docSet[t] = true
	}

	// tf is always 1, so the per-term kernel reduces to a constant
	// determined by the document length.
	dl := float64(len(docSet))
	kernel := (bm25K1 + 1) / (1 + bm25K1*(1-bm25B+bm25B*dl/bm25AvgDL))

	var score float64
	seen := make(map[string]bool, len(query))
	for _, t := range query {
		if seen[t] || !docSet[t] {
			continue
		}
		seen[t] = true

		weight := 1.0
		if idf != nil {
			if w, ok := idf[t]; ok {
				weight = w
			}
		}
		score += weight * kernel
	}

	return score
}

// TagScore blends the two tag metrics into a bounded signal:
// 0.7 * Jaccard + 0.3 * squashed BM25, clamped to [0, 1]. Raw tags are
// normalised through the given rules before scoring.
func TagScore(a, b []string, idf map[string]float64, rules TagRules) float64 {
	na := rules.Apply(a)
	nb := rules.Apply(b)

	jaccard := TagJaccard(na, nb)
	bm25 := TagBM25(na, nb, idf)

	return clamp01(tagScoreJaccardWeight*jaccard + tagScoreBM25Weight*squash(bm25))
}

// squash maps an unbounded non-negative score into [0, 1).
func squash(x float64) float64 {
	return x / (x + squashK)
}
