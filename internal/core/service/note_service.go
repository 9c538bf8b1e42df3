package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type NoteService struct {
	repo   ports.NoteRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewNoteService(repo ports.NoteRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger, now: time.Now}
}

func (s *NoteService) Create(ctx context.Context, in ports.CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.NoteDate < 0 {
		return nil, fmt.Errorf("%w: timestamp cannot be negative", domain.ErrValidation)
	}
	if in.NoteDate > domain.MaxNoteDate {
		return nil, fmt.Errorf("%w: timestamp is too far in the future", domain.ErrValidation)
	}

	now := s.now().UTC()
	note := &domain.Note{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Title:         title,
		Content:       strings.TrimSpace(in.Content),
		NoteDate:      in.NoteDate,
		AttachmentKey: in.AttachmentKey,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create note")
		return nil, err
	}

	s.logger.Info().Str("note_id", note.ID).Str("user_id", in.UserID).Msg("note created")
	return note, nil
}

// Update applies a partial update. note_date is never changed.
func (s *NoteService) Update(ctx context.Context, in ports.UpdateNoteInput) (*domain.Note, error) {
	var upd ports.NoteUpdate
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		upd.Title = &title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		upd.Content = &content
	}
	upd.AttachmentKey = in.AttachmentKey

	note, err := s.repo.Update(ctx, in.UserID, in.NoteID, upd, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("note_id", in.NoteID).Str("user_id", in.UserID).Msg("note updated")
	return note, nil
}

// Delete soft-deletes a note. Deleting twice yields domain.ErrNoteNotFound.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.repo.SoftDelete(ctx, userID, noteID, s.now().UTC()); err != nil {
		return err
	}
	s.logger.Info().Str("note_id", noteID).Str("user_id", userID).Msg("note deleted")
	return nil
}

// Today lists notes dated within the current day in the caller's time zone.
func (s *NoteService) Today(ctx context.Context, in ports.ListNotesInput) (*ports.NotePageResult, error) {
	start, end := dayBounds(s.now(), in.Timezone)
	return s.page(ctx, ports.NoteQuery{UserID: in.UserID, MinDate: &start, MaxDate: &end}, in.Limit, in.Cursor)
}

// Past lists notes dated before today, newest first.
func (s *NoteService) Past(ctx context.Context, in ports.ListNotesInput) (*ports.NotePageResult, error) {
	start, _ := dayBounds(s.now(), in.Timezone)
	before := start - 1
	return s.page(ctx, ports.NoteQuery{UserID: in.UserID, MaxDate: &before, Descending: true}, in.Limit, in.Cursor)
}

// Future lists notes dated after today, oldest first.
func (s *NoteService) Future(ctx context.Context, in ports.ListNotesInput) (*ports.NotePageResult, error) {
	_, end := dayBounds(s.now(), in.Timezone)
	after := end + 1
	return s.page(ctx, ports.NoteQuery{UserID: in.UserID, MinDate: &after}, in.Limit, in.Cursor)
}

// Search matches q against note titles, case-insensitively.
func (s *NoteService) Search(ctx context.Context, in ports.SearchNotesInput) (*ports.NotePageResult, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return nil, fmt.Errorf("%w: search query parameter 'q' is required", domain.ErrValidation)
	}
	return s.page(ctx, ports.NoteQuery{UserID: in.UserID, TitleContains: q, Descending: true}, in.Limit, in.Cursor)
}

// page fetches one extra row to learn whether another page follows.
func (s *NoteService) page(ctx context.Context, q ports.NoteQuery, limit int, cursor string) (*ports.NotePageResult, error) {
	switch {
	case limit == 0:
		limit = defaultPageSize
	case limit < 0:
		return nil, fmt.Errorf("%w: invalid limit parameter", domain.ErrValidation)
	case limit > maxPageSize:
		limit = maxPageSize
	}

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	q.After = after
	q.Limit = limit + 1

	notes, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", q.UserID).Msg("failed to list notes")
		return nil, err
	}

	result := &ports.NotePageResult{Notes: notes}
	if len(notes) > limit {
		result.Notes = notes[:limit]
		last := result.Notes[limit-1]
		result.NextCursor = encodeCursor(&domain.NoteCursor{NoteDate: last.NoteDate, NoteID: last.ID})
	}
	if result.Notes == nil {
		result.Notes = []*domain.Note{}
	}
	return result, nil
}

// dayBounds returns the first and last unix second of the day containing
// now in the named zone. Unknown zones fall back to UTC.
func dayBounds(now time.Time, timezone string) (int64, int64) {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.Unix(), end.Unix() - 1
}
