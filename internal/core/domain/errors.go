package domain

import "errors"

// Credential and session errors. The gatekeeper never surfaces these to
// clients; they exist so callers can log and count the reason for a denial.
var (
	ErrMalformedCredential = errors.New("malformed credential")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshMismatch     = errors.New("refresh token mismatch")
	ErrUnavailable         = errors.New("dependency unavailable")
)

// User errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Note and upload errors.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNoteNotFound         = errors.New("note not found")
	ErrInvalidCursor        = errors.New("invalid cursor")
	ErrStorageNotConfigured = errors.New("object storage not configured")
)
