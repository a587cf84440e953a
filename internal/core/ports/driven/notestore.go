package driven

import (
	"context"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// NoteStore persists notes, their chunks, and their enrichment
// artifacts (embeddings, tags, entities).
//
// Artifacts are stored as opaque JSON blobs at the boundary.
// Implementations must tolerate malformed or missing blobs by treating
// the artifact as absent, never by returning an error: a corrupted
// embedding for one note must not make the rest of the corpus
// unreadable.
type NoteStore interface {
	// SaveNote stores or updates a note. Enrichment artifacts on the
	// note are persisted as-is; zero-value artifacts clear the stored
	// blobs.
	SaveNote(ctx context.Context, note *domain.Note) error

	// GetNote retrieves a note by ID, including whatever enrichment
	// artifacts decode cleanly.
	GetNote(ctx context.Context, id string) (*domain.Note, error)

	// ListNotes returns all notes. Artifacts are included.
	ListNotes(ctx context.Context) ([]domain.Note, error)

	// DeleteNote removes a note and its chunks.
	DeleteNote(ctx context.Context, id string) error

	// SaveChunks replaces the stored chunks for a note.
	SaveChunks(ctx context.Context, noteID string, chunks []domain.Chunk) error

	// GetChunks retrieves the stored chunks for a note in order.
	GetChunks(ctx context.Context, noteID string) ([]domain.Chunk, error)
}

// LinkStore persists accepted links between notes.
type LinkStore interface {
	// SaveLink records a link, replacing any existing link for the
	// same source/target pair.
	SaveLink(ctx context.Context, link domain.Link) error

	// LinksFrom returns the links originating at the given note.
	LinksFrom(ctx context.Context, sourceID string) ([]domain.Link, error)

	// DeleteLink removes the link for a source/target pair.
	DeleteLink(ctx context.Context, sourceID, targetID string) error
}
