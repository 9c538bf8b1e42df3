package domain

import (
	"context"
	"time"
)

// TokenTypeAccess tags access tokens so they cannot be confused with other
// token kinds signed by the same secret.
const TokenTypeAccess = "access"

// Claims is the decoded payload of an access token.
type Claims struct {
	UserID    string
	Type      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthRequest is what the transport layer extracts from an inbound request.
type AuthRequest struct {
	BearerToken  string
	RefreshToken string // optional, from X-Refresh-Token
	Now          time.Time
}

// Decision is the gatekeeper's verdict for a single request.
// NewAccessToken is only set when the bearer token was transparently refreshed.
type Decision struct {
	Allow          bool
	UserID         string
	NewAccessToken string
}

// Deny is the zero decision.
func Deny() Decision { return Decision{} }

// Allow grants access to userID, optionally carrying a re-issued access token.
func Allow(userID, newAccessToken string) Decision {
	return Decision{Allow: true, UserID: userID, NewAccessToken: newAccessToken}
}

// Refreshed reports whether the decision carries a newly minted access token.
func (d Decision) Refreshed() bool { return d.Allow && d.NewAccessToken != "" }

type userIDContextKey struct{}

// WithUserID attaches the authenticated user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user id stored by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(userIDContextKey{}).(string)
	return id
}
