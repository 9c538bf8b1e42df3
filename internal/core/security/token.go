package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

const (
	DefaultAccessTTL  = 48 * time.Hour
	DefaultRefreshTTL = 48 * time.Hour
)

// TokenConfig is fixed at process start and injected into TokenManager.
type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// TokenManager mints and verifies HS256 access tokens and mints opaque
// refresh tokens. Every instance sharing a secret accepts the others' tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type accessClaims struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token manager: signing secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &TokenManager{
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Clock,
	}, nil
}

// IssueAccessToken signs a token for userID valid for the access TTL.
func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	now := m.now()
	claims := accessClaims{
		UserID: userID,
		Type:   domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken returns a random opaque token. It carries no claims; it
// can only be compared against the stored value.
func (m *TokenManager) IssueRefreshToken() string {
	return uuid.NewString()
}

// RefreshTokenExpiry returns now plus the refresh TTL in unix seconds.
func (m *TokenManager) RefreshTokenExpiry(now time.Time) int64 {
	return now.Add(m.refreshTTL).Unix()
}

// Validate verifies signature and expiry.
func (m *TokenManager) Validate(token string) (*domain.Claims, error) {
	return m.Parse(token, true)
}

// DecodeIgnoringExpiry verifies the signature but not the time claims.
// Only the gatekeeper's refresh path may use it to recover the user id of
// a token that has merely expired.
func (m *TokenManager) DecodeIgnoringExpiry(token string) (*domain.Claims, error) {
	return m.Parse(token, false)
}

// Parse verifies token. Signature, algorithm and token type are always
// checked; enforceExpiry=false relaxes the time checks and nothing else.
//
// Errors wrap domain.ErrTokenExpired or domain.ErrMalformedCredential.
func (m *TokenManager) Parse(token string, enforceExpiry bool) (*domain.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if enforceExpiry {
		opts = append(opts, jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims accessClaims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCredential, err)
	}
	if claims.Type != domain.TokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", domain.ErrMalformedCredential, claims.Type)
	}

	out := &domain.Claims{UserID: claims.UserID, Type: claims.Type}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
