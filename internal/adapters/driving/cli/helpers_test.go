package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notelink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/scoring"
	"github.com/custodia-labs/notelink/internal/core/services"
)

// noopEnricher satisfies the enricher port without doing any work.
type noopEnricher struct{}

func (noopEnricher) Enqueue(string) {}

func (noopEnricher) EnrichNote(_ context.Context, _ string) error { return nil }
func (noopEnricher) Start(_ context.Context) error                { return nil }
func (noopEnricher) Stop() error                                  { return nil }

// setupTestServices wires the commands to real services over an
// in-memory store and returns a cleanup that restores the old wiring.
func setupTestServices() (*memory.NoteStore, func()) {
	store := memory.NewNoteStore()

	oldNotes, oldLinks, oldEnricher, oldStore := noteService, linkService, enricherService, linkStore

	SetServices(Services{
		Notes:      services.NewNoteService(store, nil, noopEnricher{}, nil),
		Links:      services.NewLinkService(store, scoring.DefaultTagRules()),
		Enricher:   noopEnricher{},
		SavedLinks: store,
	})

	return store, func() {
		noteService = oldNotes
		linkService = oldLinks
		enricherService = oldEnricher
		linkStore = oldStore
	}
}

// seedScoredPair stores two notes with identical single-chunk vectors
// so scoring them yields a confident link.
func seedScoredPair(t *testing.T, store *memory.NoteStore) {
	t.Helper()
	ctx := context.Background()

	for _, id := range []string{"src", "tgt"} {
		note := domain.Note{
			ID:              id,
			Title:           "Note " + id,
			Content:         "shared deployment checklist",
			Tags:            []string{"ops"},
			Embedding:       domain.NewEmbedding([]float32{1, 0}),
			ChunkEmbeddings: []domain.Embedding{domain.NewEmbedding([]float32{1, 0})},
		}
		require.NoError(t, store.SaveNote(ctx, &note))
		require.NoError(t, store.SaveChunks(ctx, id, []domain.Chunk{
			{Order: 0, Text: note.Content, EndOffset: len(note.Content)},
		}))
	}
}
