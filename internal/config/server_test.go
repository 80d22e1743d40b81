package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/arena?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.AgentTimeout != 10*time.Second {
		t.Fatalf("AgentTimeout = %v, want 10s", cfg.AgentTimeout)
	}
	if cfg.EloKFactor != 32 || cfg.EloInitialRating != 1500 {
		t.Fatalf("elo defaults = %v / %v", cfg.EloKFactor, cfg.EloInitialRating)
	}
	if cfg.DiscussionRounds != 1 {
		t.Fatalf("DiscussionRounds = %d, want 1", cfg.DiscussionRounds)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/arena?sslmode=disable")
	t.Setenv("AGENT_TIMEOUT", "250ms")
	t.Setenv("ELO_K_FACTOR", "16")
	t.Setenv("DISCUSSION_ROUNDS", "2")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.AgentTimeout != 250*time.Millisecond {
		t.Fatalf("AgentTimeout = %v", cfg.AgentTimeout)
	}
	if cfg.EloKFactor != 16 || cfg.DiscussionRounds != 2 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
