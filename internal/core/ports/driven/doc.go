// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - NoteStore: Note, chunk, and enrichment artifact persistence
//   - LinkStore: Accepted link persistence
//   - ConfigStore: Application configuration (tag rules live here)
//
// # Optional Interfaces
//
// These can be nil - scoring degrades gracefully without them:
//
//   - EmbeddingService: Generates vectors. Without it, pairs fall back
//     to whatever persisted embeddings already exist.
//   - TagExtractor / EntityExtractor: Best-effort enrichment. Without
//     them the corresponding signal scores 0.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
