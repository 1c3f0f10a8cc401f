package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"vineyard-quiz/internal/domain"
)

func TestElaborationCacheCachesInRedis(t *testing.T) {
	mr, client := newMiniredis(t)
	cache := NewElaborationCache(client, "ns", time.Minute)
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "Tannat is dense and tannic.", nil
	}

	for i := 0; i < 2; i++ {
		text, err := cache.Get(context.Background(), "tannat", load)
		if err != nil || text != "Tannat is dense and tannic." {
			t.Fatalf("get %d: %q %v", i, text, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", calls)
	}
	if !mr.Exists("artifacts/ns/cache/elaborations/tannat") {
		t.Fatalf("expected cached key")
	}
}

func TestProfileStoreRoundTrip(t *testing.T) {
	_, client := newMiniredis(t)
	store := NewProfileStore(client, "ns")
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	_ = store.Put(ctx, domain.Profile{ID: "u1", UserName: "Rosa"})
	p, err := store.Get(ctx, "u1")
	if err != nil || p.UserName != "Rosa" {
		t.Fatalf("unexpected profile %+v %v", p, err)
	}
}
