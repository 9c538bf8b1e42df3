package ports

import (
	"context"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// UserDirectory persists user credential records.
// Emails passed in are already normalized.
type UserDirectory interface {
	// GetByID returns domain.ErrUserNotFound when no record exists.
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	// GetByEmail returns domain.ErrUserNotFound when no record exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create generates the user id. It returns domain.ErrUserExists when the
	// email is taken, though callers are expected to check first.
	Create(ctx context.Context, email, passwordHash, refreshToken string, refreshTokenExpiry int64) (*domain.User, error)
	// SetRefreshToken overwrites the refresh token and its expiry in one write.
	// It reports false when the user does not exist.
	SetRefreshToken(ctx context.Context, userID, token string, expiry int64) (bool, error)
}
