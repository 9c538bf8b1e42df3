package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/api/handler"
	"github.com/dailynotes/notes-api/internal/core/domain"
)

type stubAuthorizer struct {
	decision domain.Decision
	got      domain.AuthRequest
}

func (s *stubAuthorizer) Authorize(_ context.Context, req domain.AuthRequest) domain.Decision {
	s.got = req
	return s.decision
}

func run(t *testing.T, authz *stubAuthorizer, setup func(*http.Request)) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/notes/today", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Auth(authz)(func(c echo.Context) error {
		called = true
		if c.Get(handler.ContextKeyUserID) != authz.decision.UserID {
			t.Fatalf("user id not set in echo context")
		}
		if domain.UserIDFromContext(c.Request().Context()) != authz.decision.UserID {
			t.Fatalf("user id not set in request context")
		}
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, called, err
}

func TestAuthMiddleware_Allow(t *testing.T) {
	authz := &stubAuthorizer{decision: domain.Allow("U", "")}

	rec, called, err := run(t, authz, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer tok")
		r.Header.Set(HeaderRefreshToken, " rt ")
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if authz.got.BearerToken != "tok" || authz.got.RefreshToken != "rt" || authz.got.Now.IsZero() {
		t.Fatalf("unexpected request: %+v", authz.got)
	}
	if rec.Header().Get(HeaderNewAccessToken) != "" {
		t.Fatalf("no new token expected")
	}
}

func TestAuthMiddleware_RefreshedTokenExposed(t *testing.T) {
	authz := &stubAuthorizer{decision: domain.Allow("U", "fresh")}

	rec, called, err := run(t, authz, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer stale")
		r.Header.Set(HeaderRefreshToken, "rt")
	})
	if err != nil || !called {
		t.Fatalf("expected request to pass, err=%v called=%v", err, called)
	}
	if got := rec.Header().Get(HeaderNewAccessToken); got != "fresh" {
		t.Fatalf("expected new access token header, got %q", got)
	}
}

func TestAuthMiddleware_Deny(t *testing.T) {
	authz := &stubAuthorizer{decision: domain.Deny()}

	_, called, err := run(t, authz, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer bad")
	})
	if called {
		t.Fatalf("next must not run on deny")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_MissingHeaderStillAsks(t *testing.T) {
	authz := &stubAuthorizer{decision: domain.Deny()}

	_, _, err := run(t, authz, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if authz.got.BearerToken != "" {
		t.Fatalf("expected empty bearer, got %q", authz.got.BearerToken)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
