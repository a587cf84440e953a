package domain

// NoteEventKind identifies what happened to a note.
type NoteEventKind string

// Note event kinds.
const (
	// NoteSaved fires after a note is created or updated.
	NoteSaved NoteEventKind = "saved"

	// NoteDeleted fires after a note is removed.
	NoteDeleted NoteEventKind = "deleted"

	// NoteEnriched fires after an enrichment task completes for a note.
	// One event per completed task, so a note usually emits several.
	NoteEnriched NoteEventKind = "enriched"
)

// NoteEvent is a live update notification for a single note, delivered
// through the event bus to subscribers of that note's ID.
type NoteEvent struct {
	// Kind is what happened.
	Kind NoteEventKind

	// NoteID is the note the event concerns.
	NoteID string

	// Detail carries a short human-readable qualifier, such as the name
	// of the enrichment task that finished ("embedding", "tags",
	// "entities").
	Detail string
}
