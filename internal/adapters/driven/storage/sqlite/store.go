package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/notelink/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// note and link store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.notelink/data/notes.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".notelink", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "notes.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// NoteStore returns a NoteStore interface backed by this store.
func (s *Store) NoteStore() driven.NoteStore {
	return &noteStore{store: s}
}

// LinkStore returns a LinkStore interface backed by this store.
func (s *Store) LinkStore() driven.LinkStore {
	return &linkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Note Store ====================

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

// SaveNote stores or updates a note.
func (s *noteStore) SaveNote(ctx context.Context, note *domain.Note) error {
	tagsJSON, err := json.Marshal(emptyAsList(note.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}
	entitiesJSON, err := json.Marshal(emptyEntitiesAsList(note.Entities))
	if err != nil {
		return fmt.Errorf("marshalling entities: %w", err)
	}
	chunkVecsJSON, err := json.Marshal(embeddingsToVectors(note.ChunkEmbeddings))
	if err != nil {
		return fmt.Errorf("marshalling chunk embeddings: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, tags, entities, embedding, chunk_embeddings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			entities = excluded.entities,
			embedding = excluded.embedding,
			chunk_embeddings = excluded.chunk_embeddings,
			updated_at = excluded.updated_at
	`, note.ID, note.Title, note.Content, string(tagsJSON), string(entitiesJSON),
		float32SliceToBytes(note.Embedding.Vector), string(chunkVecsJSON),
		note.CreatedAt, note.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	return nil
}

// GetNote retrieves a note by ID.
func (s *noteStore) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, content, tags, entities, embedding, chunk_embeddings, created_at, updated_at
		FROM notes WHERE id = ?
	`, id)

	note, err := scanNote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return note, err
}

// ListNotes returns all notes ordered by creation time, then ID.
func (s *noteStore) ListNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, content, tags, entities, embedding, chunk_embeddings, created_at, updated_at
		FROM notes ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note //nolint:prealloc // size unknown from query
	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return notes, nil
}

// DeleteNote removes a note; its chunks cascade.
func (s *noteStore) DeleteNote(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveChunks replaces the stored chunks for a note.
func (s *noteStore) SaveChunks(ctx context.Context, noteID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE note_id = ?", noteID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (note_id, position, content, start_offset, end_offset)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, noteID, chunk.Order, chunk.Text,
			chunk.StartOffset, chunk.EndOffset); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a note in order.
func (s *noteStore) GetChunks(ctx context.Context, noteID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT position, content, start_offset, end_offset
		FROM chunks WHERE note_id = ?
		ORDER BY position
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.Order, &chunk.Text, &chunk.StartOffset, &chunk.EndOffset); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ==================== Link Store ====================

// linkStore implements driven.LinkStore.
type linkStore struct {
	store *Store
}

var _ driven.LinkStore = (*linkStore)(nil)

// SaveLink records a link, replacing any existing source/target entry.
func (s *linkStore) SaveLink(ctx context.Context, link domain.Link) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO links (source_id, target_id, score, decision, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, target_id) DO UPDATE SET
			score = excluded.score,
			decision = excluded.decision
	`, link.SourceID, link.TargetID, link.Score, string(link.Decision), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving link: %w", err)
	}
	return nil
}

// LinksFrom returns the links originating at the given note, ordered by
// score descending then target ID.
func (s *linkStore) LinksFrom(ctx context.Context, sourceID string) ([]domain.Link, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, target_id, score, decision
		FROM links WHERE source_id = ?
		ORDER BY score DESC, target_id
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []domain.Link //nolint:prealloc // size unknown from query
	for rows.Next() {
		var link domain.Link
		var decision string
		if err := rows.Scan(&link.SourceID, &link.TargetID, &link.Score, &decision); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		link.Decision = domain.LinkDecision(decision)
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}

	return links, nil
}

// DeleteLink removes the link for a source/target pair.
func (s *linkStore) DeleteLink(ctx context.Context, sourceID, targetID string) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM links WHERE source_id = ? AND target_id = ?", sourceID, targetID)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helper Functions ====================

// scanNote scans one note row via the given scan function, tolerating
// malformed JSON columns by treating them as absent. Rows written by
// older builds must never make the whole note unreadable.
func scanNote(scan func(dest ...any) error) (*domain.Note, error) {
	var note domain.Note
	var tagsJSON, entitiesJSON, chunkVecsJSON string
	var embedding []byte
	var createdAt, updatedAt sql.NullTime

	if err := scan(&note.ID, &note.Title, &note.Content, &tagsJSON, &entitiesJSON,
		&embedding, &chunkVecsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
		note.Tags = nil
	}
	if err := json.Unmarshal([]byte(entitiesJSON), &note.Entities); err != nil {
		note.Entities = nil
	}

	var chunkVecs [][]float32
	if err := json.Unmarshal([]byte(chunkVecsJSON), &chunkVecs); err == nil {
		note.ChunkEmbeddings = vectorsToEmbeddings(chunkVecs)
	}

	note.Embedding = domain.NewEmbedding(bytesToFloat32Slice(embedding))
	if createdAt.Valid {
		note.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		note.UpdatedAt = updatedAt.Time
	}

	return &note, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// embeddingsToVectors flattens embeddings to raw vectors for JSON
// storage. Always returns a non-nil slice so the column holds "[]"
// rather than "null".
func embeddingsToVectors(embeddings []domain.Embedding) [][]float32 {
	vecs := make([][]float32, 0, len(embeddings))
	for _, e := range embeddings {
		vecs = append(vecs, e.Vector)
	}
	return vecs
}

// vectorsToEmbeddings rebuilds embeddings from raw vectors.
func vectorsToEmbeddings(vecs [][]float32) []domain.Embedding {
	if len(vecs) == 0 {
		return nil
	}
	embeddings := make([]domain.Embedding, len(vecs))
	for i, v := range vecs {
		embeddings[i] = domain.NewEmbedding(v)
	}
	return embeddings
}

// emptyAsList substitutes an empty slice for nil so JSON encodes "[]".
func emptyAsList(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// emptyEntitiesAsList substitutes an empty slice for nil so JSON
// encodes "[]".
func emptyEntitiesAsList(entities []domain.EntityMention) []domain.EntityMention {
	if entities == nil {
		return []domain.EntityMention{}
	}
	return entities
}
