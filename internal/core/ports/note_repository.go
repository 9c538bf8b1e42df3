package ports

import (
	"context"
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// NoteQuery selects a user's live notes. Date bounds are inclusive and
// optional. Results are ordered by (note_date, note_id), descending when
// Descending is set, and start strictly after After.
type NoteQuery struct {
	UserID        string
	MinDate       *int64
	MaxDate       *int64
	TitleContains string // case-insensitive substring match
	Descending    bool
	After         *domain.NoteCursor
	Limit         int
}

// NoteUpdate carries the fields of a partial update; nil means unchanged.
type NoteUpdate struct {
	Title         *string
	Content       *string
	AttachmentKey *string
}

// NoteRepository defines persistence operations for notes.
// Every operation is scoped to the owning user and ignores deleted notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	// Update applies upd and returns the updated note, or
	// domain.ErrNoteNotFound when the note is missing or deleted.
	Update(ctx context.Context, userID, noteID string, upd NoteUpdate, at time.Time) (*domain.Note, error)
	// SoftDelete marks the note deleted, or returns domain.ErrNoteNotFound.
	SoftDelete(ctx context.Context, userID, noteID string, at time.Time) error
	List(ctx context.Context, q NoteQuery) ([]*domain.Note, error)
}
