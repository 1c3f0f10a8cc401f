package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Generator.APIKey != "from-env" {
		t.Fatalf("expected api key from env, got %q", cfg.Generator.APIKey)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
store:
  backend: redis
  namespace: tasting-room
redis:
  addr: localhost:6379
profiles:
  backend: sqlite
generator:
  api_key: in-file
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Store.Backend != BackendRedis || cfg.Store.Namespace != "tasting-room" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Profiles.SQLitePath != "profiles.db" || cfg.Redis.TTL != "24h" {
		t.Fatalf("defaults lost for unset keys: %+v", cfg)
	}
	if cfg.Generator.APIKey != "in-file" {
		t.Fatalf("file key must win over env, got %q", cfg.Generator.APIKey)
	}
}

func TestValidateRejectsIncompleteBackends(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatalf("postgres without url must fail")
	}
	cfg = Default()
	cfg.Profiles.Backend = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown profile backend must fail")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("bad duration must fall back, got %v", got)
	}
	if got := TTLDuration("", time.Hour); got != time.Hour {
		t.Fatalf("empty duration must fall back, got %v", got)
	}
}
