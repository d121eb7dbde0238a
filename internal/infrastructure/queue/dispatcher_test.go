package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	fail   map[string]bool
}

func (s *recordingService) Record(_ context.Context, e domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[e.Reason] {
		return errors.New("store down")
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingService) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAuditDispatcher_PreservesOrderPerSubject(t *testing.T) {
	svc := &recordingService{}
	d := NewAuditDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	subjects := []string{"alice", "bob", "carol"}
	const perSubject = 50
	for i := 0; i < perSubject; i++ {
		for _, s := range subjects {
			d.Publish(domain.AuditEvent{Kind: domain.AuditSignIn, Subject: s, Reason: strconv.Itoa(i)})
		}
	}

	waitFor(t, func() bool { return len(svc.snapshot()) == perSubject*len(subjects) })

	next := map[string]int{}
	for _, e := range svc.snapshot() {
		want := strconv.Itoa(next[e.Subject])
		if e.Reason != want {
			t.Fatalf("subject %s: got event %s, want %s", e.Subject, e.Reason, want)
		}
		next[e.Subject]++
	}
}

func TestAuditDispatcher_PublishDoesNotBlockWhenFull(t *testing.T) {
	svc := &recordingService{}
	d := NewAuditDispatcher(1, svc, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.AuditEvent{Subject: "alice"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Errorf("queued = %d, want %d", got, channelBuffer)
	}
}

func TestAuditDispatcher_ContinuesAfterRecordFailure(t *testing.T) {
	svc := &recordingService{fail: map[string]bool{"bad": true}}
	d := NewAuditDispatcher(1, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Publish(domain.AuditEvent{Subject: "alice", Reason: "bad"})
	d.Publish(domain.AuditEvent{Subject: "alice", Reason: "good"})

	waitFor(t, func() bool { return len(svc.snapshot()) == 1 })
	if got := svc.snapshot()[0].Reason; got != "good" {
		t.Errorf("recorded %q, want good", got)
	}
}

func TestAuditDispatcher_DrainsOnShutdown(t *testing.T) {
	svc := &recordingService{}
	d := NewAuditDispatcher(2, svc, zerolog.Nop())

	for i := 0; i < 20; i++ {
		d.Publish(domain.AuditEvent{Subject: "user" + strconv.Itoa(i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(svc.snapshot()); got != 20 {
		t.Errorf("recorded %d events after shutdown, want 20", got)
	}
}

func TestAuditDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shardIndex changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Errorf("shardIndex out of range: %d", first)
	}
}
