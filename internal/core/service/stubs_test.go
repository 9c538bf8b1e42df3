package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory user directory
// ---------------------------------------------------------------------------

type stubUserDirectory struct {
	mu       sync.Mutex
	byID     map[string]*domain.User
	nextID   int
	getErr   error // if set, GetByID and GetByEmail return this error
	setErr   error // if set, SetRefreshToken returns this error
	getByIDs int   // number of GetByID calls
	setCalls int
}

func newStubUserDirectory() *stubUserDirectory {
	return &stubUserDirectory{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserDirectory) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDs++
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserDirectory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserDirectory) Create(_ context.Context, email, hash, token string, expiry int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	u := &domain.User{
		ID:                 fmt.Sprintf("user-%d", r.nextID),
		Email:              email,
		PasswordHash:       hash,
		RefreshToken:       token,
		RefreshTokenExpiry: expiry,
		CreatedAt:          time.Now().UTC(),
	}
	r.byID[u.ID] = u
	return cloneUser(u), nil
}

func (r *stubUserDirectory) SetRefreshToken(_ context.Context, userID, token string, expiry int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCalls++
	if r.setErr != nil {
		return false, r.setErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return false, nil
	}
	u.RefreshToken = token
	u.RefreshTokenExpiry = expiry
	return true, nil
}

func (r *stubUserDirectory) put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
}

// ---------------------------------------------------------------------------
// Recording auditor and limiter
// ---------------------------------------------------------------------------

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAuditor) Record(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAuditor) kinds() []domain.AuthEventKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubLimiter struct {
	checkErr error
	failures map[string]int
	resets   int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{failures: make(map[string]int)}
}

func (l *stubLimiter) Check(context.Context, string) error { return l.checkErr }

func (l *stubLimiter) Fail(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	l.resets++
	return nil
}
