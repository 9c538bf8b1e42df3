package ports

import (
	"context"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// AuthAuditor records authentication outcomes without blocking the caller.
type AuthAuditor interface {
	Record(event domain.AuthEvent)
}
