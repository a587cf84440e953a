package driven

import (
	"context"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// TagExtractor derives descriptive tags from note text.
// Best-effort contract: when extraction fails the caller proceeds with
// an empty tag set rather than aborting.
type TagExtractor interface {
	// ExtractTags returns raw tag strings for the given text.
	ExtractTags(ctx context.Context, text string) ([]string, error)
}

// EntityExtractor derives weighted named-entity mentions from note
// text. Same best-effort contract as TagExtractor.
type EntityExtractor interface {
	// ExtractEntities returns raw entity mentions for the given text.
	ExtractEntities(ctx context.Context, text string) ([]domain.EntityMention, error)
}
