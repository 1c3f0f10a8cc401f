package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"vineyard-quiz/internal/config"
	"vineyard-quiz/internal/infra/memory"
	redisstore "vineyard-quiz/internal/infra/redis"
	"vineyard-quiz/internal/infra/sqlite"
)

func TestBuildStackDefaultsToMemory(t *testing.T) {
	st, err := buildStack(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer st.Close()

	if _, ok := st.store.(*memory.SessionStore); !ok {
		t.Fatalf("expected memory session store, got %T", st.store)
	}
	if _, ok := st.cache.(*memory.ElaborationCache); !ok {
		t.Fatalf("expected memory cache, got %T", st.cache)
	}
	if st.generator != nil {
		t.Fatalf("generator must stay nil without an api key")
	}
	if st.reaper == nil {
		t.Fatalf("memory store must be reaped")
	}
}

func TestBuildStackRedisAndSQLite(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Profiles.Backend = config.BackendSQLite
	cfg.Profiles.SQLitePath = filepath.Join(t.TempDir(), "profiles.db")
	cfg.Generator.APIKey = "key"

	st, err := buildStack(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer st.Close()

	if _, ok := st.store.(*redisstore.SessionStore); !ok {
		t.Fatalf("expected redis session store, got %T", st.store)
	}
	if _, ok := st.profiles.(*sqlite.ProfileStore); !ok {
		t.Fatalf("expected sqlite profiles, got %T", st.profiles)
	}
	if _, ok := st.cache.(*redisstore.ElaborationCache); !ok {
		t.Fatalf("expected redis cache, got %T", st.cache)
	}
	if st.generator == nil {
		t.Fatalf("expected a generator with an api key")
	}
	if st.reaper != nil {
		t.Fatalf("redis sessions expire by TTL and need no reaper")
	}
}

func TestHandlerServesUnderPrefix(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Prefix = "/quiz"
	st, err := buildStack(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer st.Close()

	srv := httptest.NewServer(newHandler(st, cfg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/quiz/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
