package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"vineyard-quiz/internal/config"
)

func TestLoadConfigAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9000\"\nstore:\n  backend: postgres\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	flags := &overrides{configPath: path, postgresURL: "postgres://localhost/quiz", verbose: true}

	cfg, err := flags.loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Postgres.URL != "postgres://localhost/quiz" || !cfg.Server.Verbose {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Store.Backend != config.BackendPostgres {
		t.Fatalf("expected postgres backend, got %q", cfg.Store.Backend)
	}
}

func TestLoadConfigRejectsIncompleteOverride(t *testing.T) {
	flags := &overrides{configPath: filepath.Join(t.TempDir(), "absent.yaml"), store: config.BackendRedis}
	if _, err := flags.loadConfig(); err == nil {
		t.Fatalf("redis store without an address must fail")
	}
}

func TestBindEnvFillsUnsetFlags(t *testing.T) {
	t.Setenv("VINEYARD_REDIS_ADDR", "cache:6379")
	t.Setenv("VINEYARD_PORT", "7000")

	var port, addr string
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&port, "port", "", "")
	fs.StringVar(&addr, "redis-addr", "", "")
	if err := fs.Parse([]string{"--port", "7100"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	bindEnv(fs, "VINEYARD")

	if addr != "cache:6379" {
		t.Fatalf("expected env to fill redis-addr, got %q", addr)
	}
	if port != "7100" {
		t.Fatalf("explicit flag must win over env, got %q", port)
	}
}
