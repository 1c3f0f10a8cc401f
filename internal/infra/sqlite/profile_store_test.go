package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"vineyard-quiz/internal/domain"
)

func newTestProfileStore(t *testing.T, path string) *ProfileStore {
	t.Helper()
	store, err := NewProfileStore(path)
	if err != nil {
		t.Fatalf("NewProfileStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestProfileStorePutAndGet(t *testing.T) {
	store := newTestProfileStore(t, filepath.Join(t.TempDir(), "profiles.db"))
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := store.Put(ctx, domain.Profile{ID: "u1", UserName: "Rosa"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, domain.Profile{ID: "u1", UserName: "Rosalind"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	p, err := store.Get(ctx, "u1")
	if err != nil || p.UserName != "Rosalind" || p.ID != "u1" {
		t.Fatalf("unexpected profile %+v %v", p, err)
	}
}

func TestProfileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")
	first, err := NewProfileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = first.Put(context.Background(), domain.Profile{ID: "u2", UserName: "Ines"})
	_ = first.Close()

	second := newTestProfileStore(t, path)
	p, err := second.Get(context.Background(), "u2")
	if err != nil || p.UserName != "Ines" {
		t.Fatalf("profile lost across reopen: %+v %v", p, err)
	}
}
