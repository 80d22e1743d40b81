package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"

	"werewolf-arena/internal/config"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")
	closer, err := Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer closer.Close()

	log.Info().Str("game_id", "g1").Msg("phase resolved")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	closer, err := Init(config.LogConfig{Level: "not-a-level"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer closer.Close()
}
