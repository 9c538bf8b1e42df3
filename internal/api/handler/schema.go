package handler

import (
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

// --- Notes ---

type createNoteRequest struct {
	Title         string `json:"title"          validate:"required"`
	Content       string `json:"content"`
	NoteDate      *int64 `json:"note_date"      validate:"required,gte=0,lte=4102444800"`
	AttachmentKey string `json:"attachment_key"`
}

type updateNoteRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	AttachmentKey *string `json:"attachment_key"`
}

type noteResponse struct {
	NoteID        string    `json:"note_id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	NoteDate      int64     `json:"note_date"`
	AttachmentKey *string   `json:"attachment_key"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type notePageResponse struct {
	Notes      []noteResponse `json:"notes"`
	NextCursor *string        `json:"next_cursor"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	resp := noteResponse{
		NoteID:    n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		NoteDate:  n.NoteDate,
		IsDeleted: n.IsDeleted,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.AttachmentKey != "" {
		key := n.AttachmentKey
		resp.AttachmentKey = &key
	}
	return resp
}

// --- Uploads ---

type presignRequest struct {
	Filename    string `json:"filename"     validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

type presignResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
