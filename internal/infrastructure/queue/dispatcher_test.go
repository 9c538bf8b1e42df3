package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
	block  chan struct{}
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

func TestAuditDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	kinds := []domain.AuthEventKind{domain.AuthEventSignup, domain.AuthEventLoginFailed, domain.AuthEventLogin, domain.AuthEventTokenRefresh}
	for _, user := range []string{"U1", "U2", "U3", "U4"} {
		for _, k := range kinds {
			d.Record(domain.AuthEvent{UserID: user, Kind: k, At: time.Now()})
		}
	}

	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 16 {
		t.Fatalf("expected 16 events, got %d", len(got))
	}
	perUser := map[string][]domain.AuthEventKind{}
	for _, e := range got {
		perUser[e.UserID] = append(perUser[e.UserID], e.Kind)
	}
	for user, seq := range perUser {
		for i := range kinds {
			if seq[i] != kinds[i] {
				t.Fatalf("user %s: events out of order: %v", user, seq)
			}
		}
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuthEvent{UserID: "U", Kind: domain.AuthEventDenied})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}

	close(repo.block)
	cancel()
	d.Wait()

	if n := len(repo.snapshot()); n >= channelBuffer+10 {
		t.Fatalf("expected some events to be dropped, %d were written", n)
	}
}

func TestAuditDispatcher_WriteErrorsAreSwallowed(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(0, repo, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuthEvent{Email: "a@x.com", Kind: domain.AuthEventLoginFailed})
	cancel()
	d.Wait()

	if n := len(repo.snapshot()); n != 1 {
		t.Fatalf("expected one attempted write, got %d", n)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingRepo{}, zerolog.Nop())
	for _, key := range []string{"U1", "a@x.com", ""} {
		first := d.shardIndex(key)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(key) != first {
			t.Fatalf("shardIndex(%q) not deterministic", key)
		}
	}
	if shardKey(domain.AuthEvent{UserID: "U", Email: "e"}) != "U" || shardKey(domain.AuthEvent{Email: "e"}) != "e" {
		t.Fatalf("unexpected shard keys")
	}
}
