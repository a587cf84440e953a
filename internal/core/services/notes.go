package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/notelink/internal/chunker"
	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
	"github.com/custodia-labs/notelink/internal/core/ports/driving"
	"github.com/custodia-labs/notelink/internal/logger"
	"github.com/custodia-labs/notelink/internal/markdown"
)

// Ensure NoteService implements the interface.
var _ driving.NoteService = (*NoteService)(nil)

// fileNamespace derives stable note IDs from file paths so re-importing
// a file updates its note instead of creating a duplicate.
var fileNamespace = uuid.NameSpaceURL

// NoteService manages the note corpus: normalisation, chunking,
// persistence, events, and enrichment scheduling.
type NoteService struct {
	store    driven.NoteStore
	splitter *chunker.Splitter
	enricher driving.Enricher
	bus      *EventBus
}

// NewNoteService creates a note service. The enricher and bus are
// optional.
func NewNoteService(
	store driven.NoteStore,
	splitter *chunker.Splitter,
	enricher driving.Enricher,
	bus *EventBus,
) *NoteService {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &NoteService{
		store:    store,
		splitter: splitter,
		enricher: enricher,
		bus:      bus,
	}
}

// Save stores a new or updated note. Content is stripped of markdown
// and whitespace-normalised, chunks are recomputed, and enrichment is
// scheduled. Previously computed embeddings are cleared because they no
// longer describe the new content.
func (s *NoteService) Save(ctx context.Context, note *domain.Note) error {
	if note == nil {
		return domain.ErrInvalidInput
	}

	content := chunker.Normalize(markdown.ToPlainText(note.Content))
	if content == "" {
		return fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	note.Content = content

	now := time.Now().UTC()
	if note.ID == "" {
		note.ID = uuid.New().String()
		note.CreatedAt = now
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	// Stale vectors must not survive a content change.
	note.Embedding = domain.Embedding{}
	note.ChunkEmbeddings = nil

	chunks := s.splitter.Split(note.Content)

	if err := s.store.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	if err := s.store.SaveChunks(ctx, note.ID, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	logger.Debug("Saved note %s (%d chunks)", note.ID, len(chunks))

	if s.bus != nil {
		s.bus.Publish(domain.NoteEvent{Kind: domain.NoteSaved, NoteID: note.ID})
	}
	if s.enricher != nil {
		s.enricher.Enqueue(note.ID)
	}

	return nil
}

// Get retrieves a note by ID.
func (s *NoteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	return s.store.GetNote(ctx, id)
}

// List returns all notes.
func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	return s.store.ListNotes(ctx)
}

// Delete removes a note and announces the removal.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(domain.NoteEvent{Kind: domain.NoteDeleted, NoteID: id})
	}
	return nil
}

// ImportFile ingests a markdown or plain-text file as a note. The note
// ID is derived from the absolute path, so re-importing the same file
// updates the existing note.
func (s *NoteService) ImportFile(ctx context.Context, path string) (*domain.Note, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	id := uuid.NewSHA1(fileNamespace, []byte("file://"+abs)).String()

	note := &domain.Note{
		ID:      id,
		Title:   strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		Content: string(data),
	}

	existing, err := s.store.GetNote(ctx, id)
	if err == nil {
		note.CreatedAt = existing.CreatedAt
		note.Tags = existing.Tags
		note.Entities = existing.Entities
	}

	if err := s.Save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
