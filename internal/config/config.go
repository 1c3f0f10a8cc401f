package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store and profile backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port    string `yaml:"port"`
		Bind    string `yaml:"bind"`
		Prefix  string `yaml:"prefix"`
		Verbose bool   `yaml:"verbose"`
	} `yaml:"server"`
	Store struct {
		// Backend holds game sessions: memory, redis or postgres.
		Backend   string `yaml:"backend"`
		Namespace string `yaml:"namespace"`
		// Retention deletes sessions older than this; empty keeps them.
		Retention    string `yaml:"retention"`
		ReapInterval string `yaml:"reap_interval"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Profiles struct {
		// Backend holds display names: memory, redis or sqlite.
		Backend    string `yaml:"backend"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"profiles"`
	Generator struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"generator"`
	Elaboration struct {
		TTL string `yaml:"ttl"`
	} `yaml:"elaboration"`
}

// Default returns a config that runs entirely in memory.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.Bind = "0.0.0.0"
	cfg.Store.Backend = BackendMemory
	cfg.Store.Namespace = "vineyard-quiz"
	cfg.Store.ReapInterval = "10m"
	cfg.Redis.TTL = "24h"
	cfg.Profiles.Backend = BackendMemory
	cfg.Profiles.SQLitePath = "profiles.db"
	cfg.Generator.Timeout = "30s"
	cfg.Elaboration.TTL = "24h"
	return cfg
}

// Load reads and validates the config at path.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Read parses YAML config from path over the defaults without validating it.
// A missing file yields the defaults. GEMINI_API_KEY fills an empty generator key.
func Read(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if cfg.Generator.APIKey == "" {
		cfg.Generator.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// Validate checks that each selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("store backend redis needs redis.addr")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("store backend postgres needs postgres.url")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Profiles.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("profiles backend redis needs redis.addr")
		}
	default:
		return fmt.Errorf("unknown profiles backend %q", c.Profiles.Backend)
	}
	if c.Store.Namespace == "" {
		return errors.New("store.namespace must not be empty")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
