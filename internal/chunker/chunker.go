// Package chunker splits note text into ordered, overlapping,
// token-bounded segments with boundary-aware breaking.
package chunker

import (
	"strings"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// DefaultTargetTokens is the default chunk size in tokens.
const DefaultTargetTokens = 350

// DefaultOverlapTokens is the default overlap between chunks in tokens.
const DefaultOverlapTokens = 80

// DefaultMaxChunkChars is the default hard cap on chunk size in characters.
const DefaultMaxChunkChars = 4000

const (
	// minTargetTokens is the floor applied to the target size.
	minTargetTokens = 50

	// minMaxChunkChars is the floor applied to the character cap.
	minMaxChunkChars = 500

	// charsPerToken is the fixed token-to-character heuristic.
	charsPerToken = 4
)

// Splitter produces deterministic chunks: the same input and options
// yield byte-identical output on every call.
type Splitter struct {
	targetTokens  int
	overlapTokens int
	maxChunkChars int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetTokens sets the chunk size in tokens. Values below the
// floor of 50 are clamped up.
func WithTargetTokens(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.targetTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap between consecutive chunks in
// tokens. Negative values are treated as 0.
func WithOverlapTokens(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlapTokens = n
		}
	}
}

// WithMaxChunkChars sets the hard character cap per chunk. Values below
// the floor of 500 are clamped up.
func WithMaxChunkChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChunkChars = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetTokens:  DefaultTargetTokens,
		overlapTokens: DefaultOverlapTokens,
		maxChunkChars: DefaultMaxChunkChars,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.targetTokens < minTargetTokens {
		s.targetTokens = minTargetTokens
	}
	if s.overlapTokens < 0 {
		s.overlapTokens = 0
	}
	if s.maxChunkChars < minMaxChunkChars {
		s.maxChunkChars = minMaxChunkChars
	}

	return s
}

// Normalize collapses whitespace runs to a single space and trims the
// ends. Chunk offsets refer to this normalised form of the text.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split chunks the given text. Empty or all-whitespace input yields nil.
//
// Each chunk ends at the last sentence terminal (". ") or newline found
// within the target window, provided that boundary lies past 60% of the
// window; failing that, at the last space under the same floor; failing
// that, at the raw window edge (which may split a word). The next chunk
// starts overlapChars before the previous end, floored so that starts
// strictly increase.
func (s *Splitter) Split(text string) []domain.Chunk {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	targetChars := s.targetTokens * charsPerToken
	if targetChars > s.maxChunkChars {
		targetChars = s.maxChunkChars
	}

	overlapChars := s.overlapTokens * charsPerToken
	if max := targetChars * 8 / 10; overlapChars > max {
		overlapChars = max
	}

	n := len(normalized)
	chunks := make([]domain.Chunk, 0, n/(targetChars-overlapChars+1)+1)

	start := 0
	order := 0

	for start < n {
		end := start + targetChars
		if end >= n {
			end = n
		} else {
			end = breakPoint(normalized, start, end, targetChars)
		}

		slice := normalized[start:end]
		if strings.TrimSpace(slice) != "" {
			chunks = append(chunks, domain.Chunk{
				Order:       order,
				Text:        slice,
				StartOffset: start,
				EndOffset:   end,
			})
			order++
		}

		if end >= n {
			break
		}

		next := end - overlapChars
		if next <= start {
			// Overlap would stall the cursor; force forward progress.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint finds where to end a chunk that starts at start and would
// otherwise run to limit. Boundaries earlier than 60% of the window are
// rejected so chunks never collapse to small fragments.
func breakPoint(text string, start, limit, targetChars int) int {
	floor := start + targetChars*6/10
	window := text[start:limit]

	// Prefer a sentence terminal or newline.
	best := -1
	if idx := strings.LastIndex(window, ". "); idx >= 0 {
		best = start + idx + 1 // end just after the period
	}
	if idx := strings.LastIndexByte(window, '\n'); idx >= 0 && start+idx+1 > best {
		best = start + idx + 1
	}
	if best >= floor {
		return best
	}

	// Fall back to the last space under the same floor.
	if idx := strings.LastIndexByte(window, ' '); idx >= 0 && start+idx >= floor {
		return start + idx
	}

	// Hard cut, may split a word.
	return limit
}
