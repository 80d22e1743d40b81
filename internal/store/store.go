package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access.
type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS game_records (
		id TEXT PRIMARY KEY,
		game_id TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		winning_side TEXT NOT NULL,
		record JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_reports (
		game_id TEXT PRIMARY KEY REFERENCES game_records(game_id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		report JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		identity TEXT PRIMARY KEY,
		overall DOUBLE PRECISION NOT NULL,
		entry JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS head_to_head (
		town_identity TEXT NOT NULL,
		wolf_identity TEXT NOT NULL,
		games_played INT NOT NULL DEFAULT 0,
		town_wins INT NOT NULL DEFAULT 0,
		wolf_wins INT NOT NULL DEFAULT 0,
		PRIMARY KEY (town_identity, wolf_identity)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_records_created_at ON game_records (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_overall ON ratings (overall DESC)`,
}

// EnsureSchema creates all tables on first boot. Statements are idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
