package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/api/metrics"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

// HeaderUserTimezone carries the caller's IANA time zone for day-based listings.
const HeaderUserTimezone = "X-User-Timezone"

// NoteHandler handles HTTP requests for note operations. Every route is
// mounted behind the gatekeeper.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Create files a new note.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNoteRequest  true  "Note"
// @Success      201   {object}  noteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.service.Create(c.Request().Context(), ports.CreateNoteInput{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		NoteDate:      *req.NoteDate,
		AttachmentKey: req.AttachmentKey,
	})
	if err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// Update changes title, content or attachment of a note.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        note_id  path      string             true  "Note ID"
// @Param        body     body      updateNoteRequest  true  "Fields to change"
// @Success      200      {object}  noteResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /notes/{note_id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.Update(c.Request().Context(), ports.UpdateNoteInput{
		UserID:        userID,
		NoteID:        c.Param("note_id"),
		Title:         req.Title,
		Content:       req.Content,
		AttachmentKey: req.AttachmentKey,
	})
	if err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// Delete soft-deletes a note.
//
// @Summary      Delete a note
// @Tags         notes
// @Security     BearerAuth
// @Param        note_id  path  string  true  "Note ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /notes/{note_id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("note_id")); err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Today lists the notes dated today in the caller's time zone.
//
// @Summary      Today's notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        X-User-Timezone  header    string  false  "IANA time zone, default UTC"
// @Param        limit            query     int     false  "Page size (default 20, max 100)"
// @Param        cursor           query     string  false  "Cursor from a previous page"
// @Success      200              {object}  notePageResponse
// @Failure      400              {object}  errorResponse
// @Router       /notes/today [get]
func (h *NoteHandler) Today(c echo.Context) error {
	return h.list(c, "today", h.service.Today)
}

// Past lists notes dated before today, newest first.
//
// @Summary      Past notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        X-User-Timezone  header    string  false  "IANA time zone, default UTC"
// @Param        limit            query     int     false  "Page size (default 20, max 100)"
// @Param        cursor           query     string  false  "Cursor from a previous page"
// @Success      200              {object}  notePageResponse
// @Failure      400              {object}  errorResponse
// @Router       /notes/past [get]
func (h *NoteHandler) Past(c echo.Context) error {
	return h.list(c, "past", h.service.Past)
}

// Future lists notes dated after today, oldest first.
//
// @Summary      Future notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        X-User-Timezone  header    string  false  "IANA time zone, default UTC"
// @Param        limit            query     int     false  "Page size (default 20, max 100)"
// @Param        cursor           query     string  false  "Cursor from a previous page"
// @Success      200              {object}  notePageResponse
// @Failure      400              {object}  errorResponse
// @Router       /notes/future [get]
func (h *NoteHandler) Future(c echo.Context) error {
	return h.list(c, "future", h.service.Future)
}

// Search matches note titles case-insensitively.
//
// @Summary      Search notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  true   "Title substring"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        cursor  query     string  false  "Cursor from a previous page"
// @Success      200     {object}  notePageResponse
// @Failure      400     {object}  errorResponse
// @Router       /notes/search [get]
func (h *NoteHandler) Search(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	page, err := h.service.Search(c.Request().Context(), ports.SearchNotesInput{
		UserID: userID,
		Query:  c.QueryParam("q"),
		Limit:  limit,
		Cursor: c.QueryParam("cursor"),
	})
	if err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues("search").Inc()
	return c.JSON(http.StatusOK, toNotePageResponse(page))
}

type listFunc func(ctx context.Context, in ports.ListNotesInput) (*ports.NotePageResult, error)

func (h *NoteHandler) list(c echo.Context, op string, fn listFunc) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	page, err := fn(c.Request().Context(), ports.ListNotesInput{
		UserID:   userID,
		Timezone: c.Request().Header.Get(HeaderUserTimezone),
		Limit:    limit,
		Cursor:   c.QueryParam("cursor"),
	})
	if err != nil {
		return err
	}

	metrics.NoteOperationsTotal.WithLabelValues(op).Inc()
	return c.JSON(http.StatusOK, toNotePageResponse(page))
}

func queryLimit(c echo.Context) (int, error) {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
	}
	return limit, nil
}

func toNotePageResponse(p *ports.NotePageResult) notePageResponse {
	resp := notePageResponse{Notes: make([]noteResponse, 0, len(p.Notes))}
	for _, n := range p.Notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}
	if p.NextCursor != "" {
		next := p.NextCursor
		resp.NextCursor = &next
	}
	return resp
}
