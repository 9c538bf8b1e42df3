package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthService implements signup and login. Both overwrite the stored
// refresh token; nothing else in the system does.
type AuthService struct {
	users   ports.UserDirectory
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	audit   ports.AuthAuditor
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the auth use cases. limiter and audit may be nil.
func NewAuthService(
	users ports.UserDirectory,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	limiter ports.LoginLimiter,
	audit ports.AuthAuditor,
	log zerolog.Logger,
) *AuthService {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if audit == nil {
		audit = noopAuditor{}
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	refreshToken := s.tokens.IssueRefreshToken()
	user, err := s.users.Create(ctx, email, hash, refreshToken, s.tokens.RefreshTokenExpiry(s.now()))
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.audit.Record(domain.AuthEvent{UserID: user.ID, Email: email, Kind: domain.AuthEventSignup, At: s.now()})
	s.log.Info().Str("user_id", user.ID).Msg("user signed up")

	return &ports.Session{UserID: user.ID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies the password and rotates the stored refresh token.
// Unknown email and wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	if err := s.limiter.Check(ctx, email); err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			return nil, err
		}
		s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.loginFailed(ctx, "", email, "unknown email")
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.loginFailed(ctx, user.ID, email, "wrong password")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	refreshToken := s.tokens.IssueRefreshToken()

	ok, err := s.users.SetRefreshToken(ctx, user.ID, refreshToken, s.tokens.RefreshTokenExpiry(s.now()))
	if err != nil {
		return nil, fmt.Errorf("login: store refresh token: %w", err)
	}
	if !ok {
		return nil, s.loginFailed(ctx, user.ID, email, "user vanished")
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}
	s.audit.Record(domain.AuthEvent{UserID: user.ID, Email: email, Kind: domain.AuthEventLogin, At: s.now()})
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.Session{UserID: user.ID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, userID, email, reason string) error {
	if err := s.limiter.Fail(ctx, email); err != nil && !errors.Is(err, domain.ErrTooManyAttempts) {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.audit.Record(domain.AuthEvent{UserID: userID, Email: email, Kind: domain.AuthEventLoginFailed, Reason: reason, At: s.now()})
	return domain.ErrInvalidCredentials
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", domain.ErrValidation, maxPasswordBytes)
	}
	return nil
}

type noopLimiter struct{}

func (noopLimiter) Check(context.Context, string) error { return nil }
func (noopLimiter) Fail(context.Context, string) error  { return nil }
func (noopLimiter) Reset(context.Context, string) error { return nil }

type noopAuditor struct{}

func (noopAuditor) Record(domain.AuthEvent) {}
