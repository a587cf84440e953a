package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
	"github.com/custodia-labs/notelink/internal/core/ports/driving"
	"github.com/custodia-labs/notelink/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driving.Enricher = (*EnrichmentService)(nil)

// enrichQueueSize bounds the pending note queue. Enqueue drops with a
// warning once the queue is full; a later save will re-enqueue.
const enrichQueueSize = 128

// defaultEmbedRate caps embedding requests per second.
const defaultEmbedRate = 5

// EnrichmentService computes embeddings, tags, and entities for notes
// after they are saved. The three tasks per note are independent: one
// failing is logged and never rolls back or blocks the others.
type EnrichmentService struct {
	store    driven.NoteStore
	embedder driven.EmbeddingService
	tagger   driven.TagExtractor
	entities driven.EntityExtractor
	bus      *EventBus
	limiter  *rate.Limiter

	queue chan string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewEnrichmentService creates an enrichment service. The embedder,
// tagger, entity extractor, and bus are all optional; missing services
// simply skip their task.
func NewEnrichmentService(
	store driven.NoteStore,
	embedder driven.EmbeddingService,
	tagger driven.TagExtractor,
	entities driven.EntityExtractor,
	bus *EventBus,
) *EnrichmentService {
	return &EnrichmentService{
		store:    store,
		embedder: embedder,
		tagger:   tagger,
		entities: entities,
		bus:      bus,
		limiter:  rate.NewLimiter(rate.Limit(defaultEmbedRate), 1),
		queue:    make(chan string, enrichQueueSize),
	}
}

// SetEmbedRate overrides the embedding request rate limit.
func (s *EnrichmentService) SetEmbedRate(perSecond float64) {
	if perSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// Enqueue schedules a note for background enrichment.
func (s *EnrichmentService) Enqueue(noteID string) {
	select {
	case s.queue <- noteID:
	default:
		logger.Warn("Enrichment queue full, dropping %s", noteID)
	}
}

// Start runs the background worker loop. Blocks until Stop is called
// or the context is cancelled.
func (s *EnrichmentService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrEnrichmentRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case noteID := <-s.queue:
			if err := s.EnrichNote(ctx, noteID); err != nil {
				logger.Warn("Enrichment for %s incomplete: %v", noteID, err)
			}
		}
	}
}

// Stop shuts the worker down and waits for the in-flight note.
func (s *EnrichmentService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// EnrichNote runs all available enrichment tasks for one note and
// persists whatever succeeded. The returned error aggregates the tasks
// that failed; partial results are still saved.
func (s *EnrichmentService) EnrichNote(ctx context.Context, noteID string) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("get note %s: %w", noteID, err)
	}
	chunks, err := s.store.GetChunks(ctx, noteID)
	if err != nil {
		return fmt.Errorf("get chunks %s: %w", noteID, err)
	}

	var taskErrs []error
	changed := false

	if s.embedder != nil {
		if err := s.embedNote(ctx, note, chunks); err != nil {
			taskErrs = append(taskErrs, fmt.Errorf("embedding: %w", err))
		} else {
			changed = true
			s.publish(noteID, "embedding")
		}
	}

	if s.tagger != nil {
		tags, err := s.tagger.ExtractTags(ctx, note.Content)
		if err != nil {
			taskErrs = append(taskErrs, fmt.Errorf("tags: %w", err))
		} else {
			note.Tags = tags
			changed = true
			s.publish(noteID, "tags")
		}
	}

	if s.entities != nil {
		mentions, err := s.entities.ExtractEntities(ctx, note.Content)
		if err != nil {
			taskErrs = append(taskErrs, fmt.Errorf("entities: %w", err))
		} else {
			note.Entities = mentions
			changed = true
			s.publish(noteID, "entities")
		}
	}

	if changed {
		if err := s.store.SaveNote(ctx, note); err != nil {
			taskErrs = append(taskErrs, fmt.Errorf("save note %s: %w", noteID, err))
		}
	}

	return errors.Join(taskErrs...)
}

// embedNote computes the whole-note vector and the per-chunk vectors.
func (s *EnrichmentService) embedNote(ctx context.Context, note *domain.Note, chunks []domain.Chunk) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	vec, err := s.embedder.Embed(ctx, note.Content)
	if err != nil {
		return err
	}
	note.Embedding = domain.NewEmbedding(vec)

	if len(chunks) == 0 {
		note.ChunkEmbeddings = nil
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	embeddings := make([]domain.Embedding, len(vecs))
	for i, v := range vecs {
		embeddings[i] = domain.NewEmbedding(v)
	}
	note.ChunkEmbeddings = embeddings

	return nil
}

// publish emits an enrichment event when a bus is attached.
func (s *EnrichmentService) publish(noteID, task string) {
	if s.bus != nil {
		s.bus.Publish(domain.NoteEvent{
			Kind:   domain.NoteEnriched,
			NoteID: noteID,
			Detail: task,
		})
	}
}
