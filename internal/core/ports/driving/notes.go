package driving

import (
	"context"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// NoteService manages the note corpus.
type NoteService interface {
	// Save stores a new or updated note, rechunks its content, and
	// schedules enrichment.
	Save(ctx context.Context, note *domain.Note) error

	// Get retrieves a note by ID.
	Get(ctx context.Context, id string) (*domain.Note, error)

	// List returns all notes.
	List(ctx context.Context) ([]domain.Note, error)

	// Delete removes a note.
	Delete(ctx context.Context, id string) error

	// ImportFile ingests a markdown or plain-text file as a note,
	// using the file name as the title. Re-importing the same path
	// updates the existing note.
	ImportFile(ctx context.Context, path string) (*domain.Note, error)
}

// Enricher computes embeddings, tags, and entities for notes in the
// background. Tasks for one note are independent: a failed extraction
// never rolls back a completed embedding.
type Enricher interface {
	// Enqueue schedules a note for enrichment.
	Enqueue(noteID string)

	// EnrichNote enriches one note synchronously.
	EnrichNote(ctx context.Context, noteID string) error

	// Start begins the background worker. Blocks until Stop or
	// context cancellation.
	Start(ctx context.Context) error

	// Stop drains the queue and shuts the worker down.
	Stop() error
}
