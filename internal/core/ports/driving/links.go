package driving

import (
	"context"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// LinkService scores relationships between notes.
type LinkService interface {
	// ScorePair scores one source/target pair and explains the result.
	ScorePair(ctx context.Context, sourceID, targetID string, opts domain.ScoreOptions) (*domain.LinkResult, error)

	// RankCandidates scores the source note against every other note
	// in the corpus and returns results sorted by score descending.
	// A candidate that cannot be scored is skipped, never fatal for
	// the batch.
	RankCandidates(ctx context.Context, sourceID string, opts domain.RankOptions) ([]domain.LinkResult, error)
}
