package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"vineyard-quiz/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if err := store.Create(ctx, sampleSession("ABCD")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, sampleSession("ABCD")); !errors.Is(err, domain.ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
	if ok, _ := store.Exists(ctx, "ABCD"); !ok {
		t.Fatalf("expected session present")
	}

	if err := store.Delete(ctx, "ABCD"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "ABCD"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreUpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	_ = store.Create(ctx, sampleSession("WXYZ"))

	idx := 1
	updated, err := store.Update(ctx, "WXYZ", 1, domain.SessionUpdate{CurrentQuestionIndex: &idx})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 || updated.CurrentQuestionIndex != 1 {
		t.Fatalf("unexpected document %+v", updated)
	}

	if _, err := store.Update(ctx, "WXYZ", 1, domain.SessionUpdate{CurrentQuestionIndex: &idx}); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if _, err := store.Update(ctx, "NOPE", 1, domain.SessionUpdate{}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	_ = store.Create(ctx, sampleSession("COPY"))

	got, _ := store.Get(ctx, "COPY")
	got.Questions[0].Options[0] = "tampered"
	got.Players = append(got.Players, domain.Player{ID: "x"})

	again, _ := store.Get(ctx, "COPY")
	if again.Questions[0].Options[0] == "tampered" || len(again.Players) != 0 {
		t.Fatalf("store leaked internal state: %+v", again)
	}
}

func TestSessionStoreSubscribeStreamsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	events, cancel, err := store.Subscribe(ctx, "LIVE")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if ev := receive(t, events); ev.Exists {
		t.Fatalf("expected absence first, got %+v", ev)
	}

	_ = store.Create(ctx, sampleSession("LIVE"))
	if ev := receive(t, events); !ev.Exists || ev.Session.Version != 1 {
		t.Fatalf("expected created document, got %+v", ev)
	}

	_ = store.Delete(ctx, "LIVE")
	if ev := receive(t, events); ev.Exists || ev.Code != "LIVE" {
		t.Fatalf("expected deletion event, got %+v", ev)
	}
}

func TestSessionStoreSlowSubscriberSeesLatest(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	_ = store.Create(ctx, sampleSession("SLOW"))

	events, cancel, _ := store.Subscribe(ctx, "SLOW")
	defer cancel()

	for v := int64(1); v <= 3; v++ {
		idx := int(v)
		if _, err := store.Update(ctx, "SLOW", v, domain.SessionUpdate{CurrentQuestionIndex: &idx}); err != nil {
			t.Fatalf("update %d: %v", v, err)
		}
	}
	if ev := receive(t, events); ev.Session.Version != 4 {
		t.Fatalf("expected only the newest version, got %d", ev.Session.Version)
	}
}

func TestSessionStoreCancelReleasesSubscriber(t *testing.T) {
	store := NewSessionStore()
	_, cancel, _ := store.Subscribe(context.Background(), "GONE")
	if store.Subscribers("GONE") != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if store.Subscribers("GONE") != 0 {
		t.Fatalf("expected subscriber released")
	}

	ctx, stop := context.WithCancel(context.Background())
	events, _, _ := store.Subscribe(ctx, "GONE")
	stop()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after context cancel")
		}
	}
}

func TestSessionStoreReapDropsOldSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.clock = func() time.Time { return now }

	old := sampleSession("OLDS")
	old.CreatedAt = now.Add(-48 * time.Hour)
	fresh := sampleSession("NEWS")
	fresh.CreatedAt = now.Add(-time.Hour)
	_ = store.Create(ctx, old)
	_ = store.Create(ctx, fresh)

	if n := store.Reap(24 * time.Hour); n != 1 {
		t.Fatalf("expected one reaped session, got %d", n)
	}
	if ok, _ := store.Exists(ctx, "OLDS"); ok {
		t.Fatalf("old session survived")
	}
	if ok, _ := store.Exists(ctx, "NEWS"); !ok {
		t.Fatalf("fresh session reaped")
	}
}

func receive(t *testing.T, events <-chan domain.SessionEvent) domain.SessionEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return domain.SessionEvent{}
}

func sampleSession(code string) domain.Session {
	return domain.Session{
		Code:     code,
		HostID:   "host",
		HostName: "Hana",
		Questions: []domain.Question{{
			Question:      "Which of the following is a red grape varietal?",
			Options:       []string{"Chardonnay", "Sauvignon Blanc", "Merlot", "Pinot Grigio"},
			CorrectAnswer: "Merlot",
		}},
		Players:   []domain.Player{},
		CreatedAt: time.Now().UTC(),
		Version:   1,
	}
}
