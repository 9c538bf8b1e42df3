package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password string) (*ports.Session, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.Session, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.signupFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			if email != "Alice@Example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.Session{UserID: "U1", AccessToken: "at", RefreshToken: "rt"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", `{"email":"Alice@Example.com","password":"secret1"}`), rec)

	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "at" || resp["refresh_token"] != "rt" || resp["user_id"] != "U1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", `{"email":"bob@x.com","password":"secret1"}`), httptest.NewRecorder())

	if err := handler.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", "not-json"), httptest.NewRecorder())
	if code := httpCode(t, handler.Signup(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com"}`), httptest.NewRecorder())
	err := handler.Signup(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("expected json field name in message, got %q", err.Error())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.Session{UserID: "U1", AccessToken: "at2", RefreshToken: "rt2"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret1"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "at2" || resp.RefreshToken != "rt2" || resp.UserID != "U1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrTooManyAttempts} {
		e := newTestEcho()
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
				return nil, want
			},
		}
		handler := NewAuthHandler(stub)

		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"nope12"}`), httptest.NewRecorder())
		if err := handler.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestLoginResult(t *testing.T) {
	cases := map[string]error{
		"success":   nil,
		"throttled": domain.ErrTooManyAttempts,
		"invalid":   domain.ErrInvalidCredentials,
		"error":     errors.New("boom"),
	}
	for want, err := range cases {
		if got := loginResult(err); got != want {
			t.Fatalf("loginResult(%v) = %q, want %q", err, got, want)
		}
	}
}
