package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

type stubUploadService struct {
	in  ports.PresignInput
	err error
}

func (s *stubUploadService) Presign(_ context.Context, in ports.PresignInput) (*ports.PresignResult, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &ports.PresignResult{UploadURL: "https://s3/put", ObjectKey: "U/1/abcd1234.png", ExpiresIn: 24 * time.Hour}, nil
}

func TestUploadHandler_Presign(t *testing.T) {
	e := newTestEcho()
	svc := &stubUploadService{}
	h := NewUploadHandler(svc)

	rec := httptest.NewRecorder()
	c := authedContext(e, jsonRequest(http.MethodPost, "/uploads/presign", `{"filename":"cat.png","content_type":"image/png"}`), rec)

	if err := h.Presign(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.in.UserID != "U" || svc.in.Filename != "cat.png" || svc.in.ContentType != "image/png" {
		t.Fatalf("unexpected service input: %+v", svc.in)
	}

	var resp presignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ExpiresIn != 86400 || resp.ObjectKey != "U/1/abcd1234.png" || resp.UploadURL != "https://s3/put" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUploadHandler_Presign_Errors(t *testing.T) {
	e := newTestEcho()

	h := NewUploadHandler(&stubUploadService{})
	c := authedContext(e, jsonRequest(http.MethodPost, "/uploads/presign", `{"filename":"cat.png"}`), httptest.NewRecorder())
	if err := h.Presign(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	h = NewUploadHandler(&stubUploadService{err: domain.ErrStorageNotConfigured})
	c = authedContext(e, jsonRequest(http.MethodPost, "/uploads/presign", `{"filename":"cat.png","content_type":"image/png"}`), httptest.NewRecorder())
	if err := h.Presign(c); !errors.Is(err, domain.ErrStorageNotConfigured) {
		t.Fatalf("expected ErrStorageNotConfigured, got %v", err)
	}
}
