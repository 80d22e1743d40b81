package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"werewolf-arena/internal/game"
	"werewolf-arena/internal/rating"
)

// RatingStore implements rating.Store on Postgres. Update methods run the
// mutator inside a transaction holding a row lock, so concurrent games
// settling against the same identity serialize cleanly.
type RatingStore struct {
	s       *Store
	initial float64
}

func (s *Store) Ratings(initial float64) *RatingStore {
	return &RatingStore{s: s, initial: initial}
}

func (r *RatingStore) GetEntry(ctx context.Context, identity string) (rating.Entry, error) {
	var body []byte
	row := r.s.Pool.QueryRow(ctx, `SELECT entry FROM ratings WHERE identity = $1`, identity)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rating.Entry{}, rating.ErrNotFound
		}
		return rating.Entry{}, err
	}
	return decodeEntry(body)
}

func (r *RatingStore) ListEntries(ctx context.Context) ([]rating.Entry, error) {
	rows, err := r.s.Pool.Query(ctx, `SELECT entry FROM ratings ORDER BY overall DESC, identity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rating.Entry
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		e, err := decodeEntry(body)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RatingStore) UpdateEntry(ctx context.Context, identity string, fn func(*rating.Entry)) (rating.Entry, error) {
	tx, err := r.s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return rating.Entry{}, err
	}
	defer tx.Rollback(ctx)

	e := rating.Entry{Identity: identity, Overall: r.initial, Roles: make(map[game.Role]float64)}
	var body []byte
	row := tx.QueryRow(ctx, `SELECT entry FROM ratings WHERE identity = $1 FOR UPDATE`, identity)
	switch err := row.Scan(&body); {
	case err == nil:
		if e, err = decodeEntry(body); err != nil {
			return rating.Entry{}, err
		}
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return rating.Entry{}, err
	}

	fn(&e)
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	encoded, err := json.Marshal(e)
	if err != nil {
		return rating.Entry{}, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO ratings (identity, overall, entry, updated_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (identity) DO UPDATE SET overall = EXCLUDED.overall, entry = EXCLUDED.entry, updated_at = EXCLUDED.updated_at`,
		identity, e.Overall, encoded, e.UpdatedAt)
	if err != nil {
		return rating.Entry{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return rating.Entry{}, err
	}
	return e, nil
}

func (r *RatingStore) UpdateHeadToHead(ctx context.Context, town, wolf string, fn func(*rating.HeadToHead)) error {
	tx, err := r.s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	h := rating.HeadToHead{TownIdentity: town, WolfIdentity: wolf}
	row := tx.QueryRow(ctx,
		`SELECT games_played, town_wins, wolf_wins FROM head_to_head WHERE town_identity = $1 AND wolf_identity = $2 FOR UPDATE`,
		town, wolf)
	switch err := row.Scan(&h.GamesPlayed, &h.TownWins, &h.WolfWins); {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return err
	}

	fn(&h)
	_, err = tx.Exec(ctx,
		`INSERT INTO head_to_head (town_identity, wolf_identity, games_played, town_wins, wolf_wins) VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (town_identity, wolf_identity) DO UPDATE SET games_played = EXCLUDED.games_played, town_wins = EXCLUDED.town_wins, wolf_wins = EXCLUDED.wolf_wins`,
		town, wolf, h.GamesPlayed, h.TownWins, h.WolfWins)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RatingStore) ListHeadToHead(ctx context.Context) ([]rating.HeadToHead, error) {
	rows, err := r.s.Pool.Query(ctx,
		`SELECT town_identity, wolf_identity, games_played, town_wins, wolf_wins FROM head_to_head ORDER BY town_identity, wolf_identity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rating.HeadToHead
	for rows.Next() {
		var h rating.HeadToHead
		if err := rows.Scan(&h.TownIdentity, &h.WolfIdentity, &h.GamesPlayed, &h.TownWins, &h.WolfWins); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func decodeEntry(body []byte) (rating.Entry, error) {
	var e rating.Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return rating.Entry{}, err
	}
	if e.Roles == nil {
		e.Roles = make(map[game.Role]float64)
	}
	return e, nil
}
