package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/security"
)

func newTestAuthService(t *testing.T) (*AuthService, *stubUserDirectory, *stubLimiter, *recordingAuditor) {
	t.Helper()
	tokens, err := security.NewTokenManager(security.TokenConfig{Secret: []byte("secret")})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	users := newStubUserDirectory()
	limiter := newStubLimiter()
	audit := &recordingAuditor{}
	svc := NewAuthService(users, security.NewBcryptHasher(zerolog.Nop()), tokens, limiter, audit, zerolog.Nop())
	return svc, users, limiter, audit
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, users, _, audit := newTestAuthService(t)

	sess, err := svc.Signup(context.Background(), "  Alice@Example.COM ", "pass123")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" || sess.UserID == "" {
		t.Fatalf("incomplete session: %+v", sess)
	}

	user, err := users.GetByID(context.Background(), sess.UserID)
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.RefreshToken != sess.RefreshToken {
		t.Fatalf("stored refresh token differs from issued one")
	}
	if user.RefreshTokenExpiry <= time.Now().Unix() {
		t.Fatalf("refresh expiry not in the future: %d", user.RefreshTokenExpiry)
	}
	if kinds := audit.kinds(); len(kinds) != 1 || kinds[0] != domain.AuthEventSignup {
		t.Fatalf("unexpected audit trail: %v", kinds)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	cases := []struct{ email, password string }{
		{"", "pass123"},
		{"not-an-email", "pass123"},
		{"bob@example.com", ""},
		{"bob@example.com", "12345"},
		{"bob@example.com", strings.Repeat("a", 73)},
		{"bob@example.com", strings.Repeat("é", 37)},
	}
	for _, tc := range cases {
		if _, err := svc.Signup(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Signup(%q, %q): expected ErrValidation, got %v", tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Signup_LongestPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	password := strings.Repeat("a", 72)
	if _, err := svc.Signup(context.Background(), "long@example.com", password); err != nil {
		t.Fatalf("Signup with a 72-byte password returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "long@example.com", password); err != nil {
		t.Fatalf("Login with a 72-byte password returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "long@example.com", password+"a"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a 73-byte login password, got %v", err)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "bob@example.com", "pass123"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "BOB@example.com", "pass456"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_DirectoryDown(t *testing.T) {
	svc, users, _, _ := newTestAuthService(t)
	users.getErr = errors.New("connection refused")

	if _, err := svc.Signup(context.Background(), "bob@example.com", "pass123"); err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected wrapped directory error, got %v", err)
	}
}

func TestAuthService_Login_RotatesRefreshToken(t *testing.T) {
	svc, users, limiter, audit := newTestAuthService(t)

	signed, err := svc.Signup(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	sess, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sess.UserID != signed.UserID {
		t.Fatalf("expected user %s, got %s", signed.UserID, sess.UserID)
	}
	if sess.RefreshToken == signed.RefreshToken {
		t.Fatalf("expected a new refresh token on login")
	}

	user, _ := users.GetByID(context.Background(), sess.UserID)
	if user.RefreshToken != sess.RefreshToken {
		t.Fatalf("stored refresh token was not overwritten")
	}
	if limiter.resets != 1 {
		t.Fatalf("expected throttle reset, got %d", limiter.resets)
	}
	kinds := audit.kinds()
	if kinds[len(kinds)-1] != domain.AuthEventLogin {
		t.Fatalf("expected login audit event, got %v", kinds)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, limiter, _ := newTestAuthService(t)

	_, _ = svc.Signup(context.Background(), "dave@example.com", "goodpass")
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures["dave@example.com"] != 1 {
		t.Fatalf("expected failure to be recorded, got %d", limiter.failures["dave@example.com"])
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, users, limiter, _ := newTestAuthService(t)
	limiter.checkErr = domain.ErrTooManyAttempts

	if _, err := svc.Login(context.Background(), "erin@example.com", "password"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if users.setCalls != 0 {
		t.Fatalf("throttled login must not touch the directory")
	}
}

func TestAuthService_Login_ThrottleBackendDown(t *testing.T) {
	svc, _, limiter, _ := newTestAuthService(t)
	if _, err := svc.Signup(context.Background(), "frank@example.com", "password"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	limiter.checkErr = errors.New("redis: connection refused")

	if _, err := svc.Login(context.Background(), "frank@example.com", "password"); err != nil {
		t.Fatalf("expected login to proceed when throttle is unavailable, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	svc, users, _, _ := newTestAuthService(t)
	if _, err := svc.Signup(context.Background(), "gina@example.com", "password"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	users.setErr = errors.New("write conflict")

	if _, err := svc.Login(context.Background(), "gina@example.com", "password"); err == nil {
		t.Fatalf("expected error when refresh token cannot be stored")
	}
}
