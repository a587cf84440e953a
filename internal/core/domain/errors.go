package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Chunk-level matching degrades to
	// whatever persisted vectors already exist.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrExtractionUnavailable indicates the tag/entity extraction
	// service is not configured. Enrichment proceeds best-effort with
	// the remaining tasks.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")

	// ErrEnrichmentRunning indicates an enrichment pass is already in
	// progress for the store.
	ErrEnrichmentRunning = errors.New("enrichment already running")
)
