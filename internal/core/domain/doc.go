// Package domain defines the core business entities for notelink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: A text document in the corpus
//   - Chunk: A bounded slice of a note's normalised text
//   - Embedding: A fixed-dimension vector for a chunk or note
//   - FeatureScores / LinkResult: The scored relationship between notes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
