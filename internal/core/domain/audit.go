package domain

import "time"

// AuthEventKind classifies audit trail entries.
type AuthEventKind string

const (
	AuthEventSignup       AuthEventKind = "signup"
	AuthEventLogin        AuthEventKind = "login"
	AuthEventLoginFailed  AuthEventKind = "login_failed"
	AuthEventTokenRefresh AuthEventKind = "token_refresh"
	AuthEventDenied       AuthEventKind = "denied"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	UserID string
	Email  string
	Kind   AuthEventKind
	Reason string // optional
	At     time.Time
}
