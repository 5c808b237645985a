package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:                 "8080",
		DataBackend:          "memory",
		SQLiteDBPath:         "./data/fintrack.db",
		AMQPExchange:         "fintrack",
		AMQPQueue:            "transaction_events",
		ExportDir:            "./data/exports",
		SummaryFanoutLimit:   8,
		SummaryUserTimeout:   5 * time.Second,
		APIBaseURL:           "http://localhost:8080/api",
		ClientTimeout:        10 * time.Second,
		ClientAllowFallback:  true,
		ClientSimulateWrites: false,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between"},
		{"bad backend", func(c *Config) { c.DataBackend = "mongo" }, "invalid data backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "invalid AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }, "API base URL cannot be empty"},
		{"bad api scheme", func(c *Config) { c.APIBaseURL = "ftp://host/api" }, "invalid API base URL scheme"},
		{"fanout too small", func(c *Config) { c.SummaryFanoutLimit = 0 }, "summary fanout limit"},
		{"timeout too small", func(c *Config) { c.SummaryUserTimeout = time.Millisecond }, "summary user timeout"},
		{"client timeout too small", func(c *Config) { c.ClientTimeout = time.Millisecond }, "client timeout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("default backend = %s", cfg.DataBackend)
	}
	if !cfg.ClientAllowFallback {
		t.Fatal("fallback should default to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", t.TempDir()+"/x.db")
	t.Setenv("SUMMARY_FANOUT_LIMIT", "16")
	t.Setenv("SUMMARY_USER_TIMEOUT", "2s")
	t.Setenv("CLIENT_SIMULATE_WRITES", "true")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "sqlite" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.SummaryFanoutLimit != 16 || cfg.SummaryUserTimeout != 2*time.Second {
		t.Fatalf("fanout env not applied: %+v", cfg)
	}
	if !cfg.ClientSimulateWrites {
		t.Fatal("CLIENT_SIMULATE_WRITES not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
