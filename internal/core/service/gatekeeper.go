package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
	"github.com/dailynotes/notes-api/internal/core/security"
)

// Gatekeeper decides, once per request, whether a bearer token grants
// access. An expired token is transparently replaced when the client also
// presents the user's current refresh token.
//
// The refresh token is not rotated on this path: a leaked refresh token
// keeps minting access tokens until its own expiry or the next login.
type Gatekeeper struct {
	users  ports.UserDirectory
	tokens ports.TokenService
	audit  ports.AuthAuditor
	log    zerolog.Logger
	now    func() time.Time
}

// NewGatekeeper wires the gatekeeper. audit may be nil.
func NewGatekeeper(users ports.UserDirectory, tokens ports.TokenService, audit ports.AuthAuditor, log zerolog.Logger) *Gatekeeper {
	if audit == nil {
		audit = noopAuditor{}
	}
	return &Gatekeeper{users: users, tokens: tokens, audit: audit, log: log, now: time.Now}
}

// Authorize never returns an error: every failure, expected or not, is a
// denial. Causes are logged and never reach the client.
func (g *Gatekeeper) Authorize(ctx context.Context, req domain.AuthRequest) (decision domain.Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Msg("authorization fault")
			decision = domain.Deny()
		}
	}()

	if req.BearerToken == "" {
		return domain.Deny()
	}
	if req.Now.IsZero() {
		req.Now = g.now()
	}

	claims, err := g.tokens.Validate(req.BearerToken)
	if err == nil {
		if claims.UserID == "" {
			return g.deny("", fmt.Errorf("%w: token has no user id", domain.ErrMalformedCredential))
		}
		return domain.Allow(claims.UserID, "")
	}

	if req.RefreshToken == "" {
		return g.deny("", err)
	}

	userID, err := g.refresh(ctx, req)
	if err != nil {
		return g.deny(userID, err)
	}

	newToken, err := g.tokens.IssueAccessToken(userID)
	if err != nil {
		return g.deny(userID, fmt.Errorf("%w: %v", domain.ErrUnavailable, err))
	}

	g.audit.Record(domain.AuthEvent{UserID: userID, Kind: domain.AuthEventTokenRefresh, At: req.Now})
	g.log.Debug().Str("user_id", userID).Msg("access token refreshed")

	return domain.Allow(userID, newToken)
}

// refresh recovers the user id from a signature-valid token and checks the
// presented refresh token against the stored one. It returns the user id
// whenever one was recovered, even on failure, for logging.
func (g *Gatekeeper) refresh(ctx context.Context, req domain.AuthRequest) (string, error) {
	claims, err := g.tokens.DecodeIgnoringExpiry(req.BearerToken)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: token has no user id", domain.ErrMalformedCredential)
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return claims.UserID, err
		}
		return claims.UserID, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	if err := security.CheckRefreshToken(req.RefreshToken, user.RefreshToken, user.RefreshTokenExpiry, req.Now); err != nil {
		return claims.UserID, err
	}
	return claims.UserID, nil
}

func (g *Gatekeeper) deny(userID string, reason error) domain.Decision {
	ev := g.log.Debug()
	if errors.Is(reason, domain.ErrUnavailable) {
		ev = g.log.Error()
	}
	ev.Err(reason).Str("user_id", userID).Msg("request denied")

	if userID != "" {
		g.audit.Record(domain.AuthEvent{UserID: userID, Kind: domain.AuthEventDenied, Reason: denyReason(reason), At: g.now()})
	}
	return domain.Deny()
}

// denyReason maps a denial cause to a short, stable label.
func denyReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrRefreshMismatch):
		return "mismatch"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	default:
		return "malformed"
	}
}
