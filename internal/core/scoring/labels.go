package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// WeightedJaccard returns the weighted Jaccard similarity of two label
// sets: sum of per-key minimum weights over sum of per-key maximum
// weights across the key union. Two empty sets, or a union with zero
// total weight, score 0.
func WeightedJaccard(a, b domain.WeightedLabelSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	var minSum, maxSum float64
	for key, wa := range a {
		wb := b[key]
		if wa < wb {
			minSum += wa
			maxSum += wb
		} else {
			minSum += wb
			maxSum += wa
		}
	}
	for key, wb := range b {
		if _, ok := a[key]; !ok {
			maxSum += wb
		}
	}

	if maxSum == 0 {
		return 0
	}
	return minSum / maxSum
}

// NormalizeEntity canonicalises an entity name: lowercase, Unicode
// decomposition with combining marks stripped, whitespace and
// underscores collapsed to hyphens, all other characters outside
// [a-z0-9-] removed, repeated hyphens collapsed, edges trimmed.
// Unlike tags there is no word-count cap, synonym table, or stop-list.
func NormalizeEntity(raw string) string {
	s := foldASCII(strings.ToLower(raw))

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			sb.WriteByte('-')
		}
	}

	return trimHyphens(collapseHyphens(sb.String()))
}

// BuildEntitySet merges raw entity mentions into a weighted label set,
// normalising names, summing weights for duplicates, and flooring
// negative weights at 0. Mentions whose names normalise to empty are
// dropped.
func BuildEntitySet(mentions []domain.EntityMention) domain.WeightedLabelSet {
	set := make(domain.WeightedLabelSet, len(mentions))
	for _, m := range mentions {
		set.Add(NormalizeEntity(m.Name), m.Weight)
	}
	return set
}

// foldASCII applies NFKD decomposition and drops combining marks, so
// accented letters reduce to their base form before filtering.
func foldASCII(s string) string {
	decomposed := norm.NFKD.String(s)

	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// collapseHyphens reduces runs of hyphens to a single hyphen.
func collapseHyphens(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// trimHyphens strips leading and trailing hyphens.
func trimHyphens(s string) string {
	return strings.Trim(s, "-")
}
