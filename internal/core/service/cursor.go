package service

import (
	"encoding/base64"
	"encoding/json"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// encodeCursor renders c as URL-safe base64 JSON. nil yields "".
func encodeCursor(c *domain.NoteCursor) string {
	if c == nil {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (*domain.NoteCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	var c domain.NoteCursor
	if err := json.Unmarshal(raw, &c); err != nil || c.NoteID == "" {
		return nil, domain.ErrInvalidCursor
	}
	return &c, nil
}
