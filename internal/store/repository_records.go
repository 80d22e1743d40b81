package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"werewolf-arena/internal/game"
	"werewolf-arena/internal/metrics"
)

// RecordSummary is a listing row: the record body stays in the database.
type RecordSummary struct {
	GameID      string    `json:"game_id"`
	CreatedAt   time.Time `json:"created_at"`
	WinningSide string    `json:"winning_side"`
}

func (s *Store) SaveRecord(ctx context.Context, rec *game.Record) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	id := NewID()
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO game_records (id, game_id, created_at, winning_side, record) VALUES ($1,$2,$3,$4,$5)`,
		id, rec.GameID, rec.CreatedAt, string(rec.FinalResult.WinningSide), body)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRecord(ctx context.Context, gameID string) (*game.Record, error) {
	var body []byte
	row := s.Pool.QueryRow(ctx, `SELECT record FROM game_records WHERE game_id = $1`, gameID)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rec game.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListRecords(ctx context.Context, limit, offset int) ([]RecordSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT game_id, created_at, winning_side FROM game_records ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecordSummary, 0, limit)
	for rows.Next() {
		var r RecordSummary
		if err := rows.Scan(&r.GameID, &r.CreatedAt, &r.WinningSide); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveReport(ctx context.Context, gameID string, rep *metrics.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO game_reports (game_id, report) VALUES ($1,$2)
		 ON CONFLICT (game_id) DO UPDATE SET report = EXCLUDED.report, created_at = now()`,
		gameID, body)
	return err
}

func (s *Store) GetReport(ctx context.Context, gameID string) (*metrics.Report, error) {
	var body []byte
	row := s.Pool.QueryRow(ctx, `SELECT report FROM game_reports WHERE game_id = $1`, gameID)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rep metrics.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
