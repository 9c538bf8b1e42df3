package ports

import (
	"context"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// CreateNoteInput carries the data needed to create a note.
type CreateNoteInput struct {
	UserID        string
	Title         string
	Content       string
	NoteDate      int64
	AttachmentKey string
}

// UpdateNoteInput carries a partial update; nil fields are left untouched.
type UpdateNoteInput struct {
	UserID        string
	NoteID        string
	Title         *string
	Content       *string
	AttachmentKey *string
}

// ListNotesInput carries paging and time zone data for the listing endpoints.
type ListNotesInput struct {
	UserID   string
	Timezone string // IANA name, empty means UTC
	Limit    int
	Cursor   string
}

// SearchNotesInput carries a title search.
type SearchNotesInput struct {
	UserID string
	Query  string
	Limit  int
	Cursor string
}

// NotePageResult is returned by the listing and search operations.
type NotePageResult struct {
	Notes      []*domain.Note
	NextCursor string // empty on the last page
}

// NoteService implements note use cases for an authenticated user.
type NoteService interface {
	Create(ctx context.Context, in CreateNoteInput) (*domain.Note, error)
	Update(ctx context.Context, in UpdateNoteInput) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	Today(ctx context.Context, in ListNotesInput) (*NotePageResult, error)
	Past(ctx context.Context, in ListNotesInput) (*NotePageResult, error)
	Future(ctx context.Context, in ListNotesInput) (*NotePageResult, error)
	Search(ctx context.Context, in SearchNotesInput) (*NotePageResult, error)
}
