package domain

import "time"

// MaxNoteDate is the upper bound accepted for note_date (2100-01-01 UTC).
const MaxNoteDate int64 = 4102444800

// Note is a user-owned note. NoteDate is the unix second the note is filed
// under; it is fixed at creation.
type Note struct {
	ID            string    `json:"note_id"        bson:"_id"`
	UserID        string    `json:"user_id"        bson:"user_id"`
	Title         string    `json:"title"          bson:"title"`
	Content       string    `json:"content"        bson:"content"`
	NoteDate      int64     `json:"note_date"      bson:"note_date"`
	AttachmentKey string    `json:"attachment_key,omitempty" bson:"attachment_key,omitempty"`
	IsDeleted     bool      `json:"is_deleted"     bson:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"     bson:"updated_at"`
}

// NoteCursor identifies the last note of a page in (note_date, note_id) order.
type NoteCursor struct {
	NoteDate int64  `json:"d"`
	NoteID   string `json:"id"`
}
