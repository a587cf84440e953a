package domain

import "time"

// Note represents a single text document in the corpus.
// Content is the canonical plain text after markdown stripping
// and whitespace normalisation.
type Note struct {
	// ID is the unique identifier for the note.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full normalised text of the note.
	Content string

	// Tags are the raw tag strings attached to the note.
	// They are normalised lazily by the scoring core; duplicates
	// and casing variants are tolerated here.
	Tags []string

	// Entities are the named entities mentioned in the note,
	// each with an accumulated relevance weight.
	Entities []EntityMention

	// Embedding is the whole-note vector, if one has been computed.
	// A zero-value Embedding means "no embedding yet".
	Embedding Embedding

	// ChunkEmbeddings are the per-chunk vectors, index-aligned with
	// the note's chunk order. May be empty when enrichment has not run.
	ChunkEmbeddings []Embedding

	// CreatedAt is when the note was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the note was last modified.
	UpdatedAt time.Time
}

// Chunk is a bounded contiguous slice of a note's normalised text.
// Chunks are the unit of embedding; they are recreated on every
// chunking pass and never mutated.
type Chunk struct {
	// Order is the 0-based ordinal position within the note.
	Order int

	// Text is the exact substring [StartOffset, EndOffset) of the
	// normalised source text.
	Text string

	// StartOffset is the byte offset where the chunk begins.
	StartOffset int

	// EndOffset is the byte offset one past the chunk end.
	// Always strictly greater than StartOffset.
	EndOffset int
}

// Embedding is a fixed-dimension float vector for a chunk or note.
// Two embeddings are comparable only when their dimensions match;
// comparing incompatible embeddings yields similarity 0, never an error.
type Embedding struct {
	// Vector holds the embedding values.
	Vector []float32

	// Dimension is len(Vector), stored explicitly so persisted
	// embeddings can be validated without decoding the vector.
	Dimension int
}

// NewEmbedding wraps a raw vector, recording its dimension.
func NewEmbedding(vec []float32) Embedding {
	return Embedding{Vector: vec, Dimension: len(vec)}
}

// IsZero reports whether the embedding carries no usable vector.
func (e Embedding) IsZero() bool {
	return len(e.Vector) == 0
}

// EntityMention is a named entity extracted from a note together
// with a non-negative relevance weight.
type EntityMention struct {
	// Name is the raw entity name as extracted.
	Name string `json:"entity"`

	// Weight is the relevance weight. Negative weights are floored
	// to 0 when sets are built.
	Weight float64 `json:"weight"`
}
