package ports

import (
	"context"
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// Session is the credential pair handed to a client after signup or login.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// AuthService implements signup and login.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// Authorizer makes the allow/deny decision for an inbound request.
type Authorizer interface {
	Authorize(ctx context.Context, req domain.AuthRequest) domain.Decision
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenService issues and verifies access tokens and mints refresh tokens.
type TokenService interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken() string
	RefreshTokenExpiry(now time.Time) int64
	Validate(token string) (*domain.Claims, error)
	DecodeIgnoringExpiry(token string) (*domain.Claims, error)
}

// LoginLimiter throttles repeated failed logins for one email.
type LoginLimiter interface {
	Check(ctx context.Context, email string) error
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
