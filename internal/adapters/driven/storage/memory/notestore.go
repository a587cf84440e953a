// Package memory provides in-memory store implementations for tests
// and ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
)

// Ensure NoteStore implements the interfaces.
var (
	_ driven.NoteStore = (*NoteStore)(nil)
	_ driven.LinkStore = (*NoteStore)(nil)
)

// NoteStore is an in-memory implementation of driven.NoteStore and
// driven.LinkStore.
type NoteStore struct {
	mu     sync.RWMutex
	notes  map[string]domain.Note
	chunks map[string][]domain.Chunk
	links  map[string]map[string]domain.Link
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes:  make(map[string]domain.Note),
		chunks: make(map[string][]domain.Chunk),
		links:  make(map[string]map[string]domain.Link),
	}
}

// SaveNote stores or updates a note.
func (s *NoteStore) SaveNote(_ context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = *note
	return nil
}

// GetNote retrieves a note by ID.
func (s *NoteStore) GetNote(_ context.Context, id string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &note, nil
}

// ListNotes returns all notes ordered by creation time, then ID.
func (s *NoteStore) ListNotes(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]domain.Note, 0, len(s.notes))
	for _, note := range s.notes {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// DeleteNote removes a note and its chunks.
func (s *NoteStore) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.notes, id)
	delete(s.chunks, id)
	return nil
}

// SaveChunks replaces the stored chunks for a note.
func (s *NoteStore) SaveChunks(_ context.Context, noteID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[noteID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetChunks retrieves the stored chunks for a note in order.
func (s *NoteStore) GetChunks(_ context.Context, noteID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Chunk(nil), s.chunks[noteID]...), nil
}

// SaveLink records a link, replacing any existing source/target entry.
func (s *NoteStore) SaveLink(_ context.Context, link domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.links[link.SourceID] == nil {
		s.links[link.SourceID] = make(map[string]domain.Link)
	}
	s.links[link.SourceID][link.TargetID] = link
	return nil
}

// LinksFrom returns the links originating at the given note, ordered
// by score descending then target ID.
func (s *NoteStore) LinksFrom(_ context.Context, sourceID string) ([]domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]domain.Link, 0, len(s.links[sourceID]))
	for _, link := range s.links[sourceID] {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Score != links[j].Score {
			return links[i].Score > links[j].Score
		}
		return links[i].TargetID < links[j].TargetID
	})
	return links, nil
}

// DeleteLink removes the link for a source/target pair.
func (s *NoteStore) DeleteLink(_ context.Context, sourceID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[sourceID][targetID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.links[sourceID], targetID)
	return nil
}
