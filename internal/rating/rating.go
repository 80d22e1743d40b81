// Package rating maintains Elo-style skill ratings for agent identities
// across games: an overall rating, per-role buckets, and asymmetric
// town-versus-wolf head-to-head records.
package rating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"werewolf-arena/internal/game"
)

const (
	DefaultKFactor       = 32.0
	DefaultInitialRating = 1500.0
)

// ErrNotFound is returned by stores for identities that have never played.
var ErrNotFound = errors.New("rating: entry not found")

// Entry is the persistent rating state of one agent identity. Identity is
// the stable cross-game key (the agent implementation), never a per-game
// player id.
type Entry struct {
	Identity    string                `json:"identity"`
	Overall     float64               `json:"overall_rating"`
	Roles       map[game.Role]float64 `json:"role_ratings"`
	GamesPlayed int                   `json:"games_played"`
	Wins        int                   `json:"wins"`
	Losses      int                   `json:"losses"`
	WinsAsTown  int                   `json:"wins_as_town"`
	WinsAsWolf  int                   `json:"wins_as_wolf"`
	LastGameID  string                `json:"last_game_id,omitempty"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// HeadToHead is one directed matchup cell: how a town-side identity fares
// against a wolf-side identity. The pair is ordered, never canonicalized,
// so the same two identities in swapped alignments occupy a different cell.
type HeadToHead struct {
	TownIdentity string `json:"town_identity"`
	WolfIdentity string `json:"wolf_identity"`
	GamesPlayed  int    `json:"games_played"`
	TownWins     int    `json:"town_wins"`
	WolfWins     int    `json:"wolf_wins"`
}

// TownWinRate is the observed town win fraction of this cell.
func (h HeadToHead) TownWinRate() float64 {
	if h.GamesPlayed == 0 {
		return 0.0
	}
	return float64(h.TownWins) / float64(h.GamesPlayed)
}

// Store is the persistence boundary for ratings. Update methods take a
// mutator closure so implementations can run read-modify-write atomically;
// the closure receives the current value, lazily initialized on first
// appearance.
type Store interface {
	GetEntry(ctx context.Context, identity string) (Entry, error)
	ListEntries(ctx context.Context) ([]Entry, error)
	UpdateEntry(ctx context.Context, identity string, fn func(*Entry)) (Entry, error)
	UpdateHeadToHead(ctx context.Context, town, wolf string, fn func(*HeadToHead)) error
	ListHeadToHead(ctx context.Context) ([]HeadToHead, error)
}

// Delta is the outcome of one game for one identity.
type Delta struct {
	Identity  string    `json:"identity"`
	Role      game.Role `json:"role"`
	Won       bool      `json:"won"`
	Expected  float64   `json:"expected_score"`
	Change    float64   `json:"rating_change"`
	NewRating float64   `json:"new_rating"`
}

// GameUpdate summarizes one applied record.
type GameUpdate struct {
	GameID      string  `json:"game_id"`
	WinningSide string  `json:"winning_side"`
	TownAvg     float64 `json:"town_avg_rating"`
	WolfAvg     float64 `json:"wolf_avg_rating"`
	Deltas      []Delta `json:"deltas"`
}

// System applies finished game records to a Store. Application is not
// idempotent: replaying the same record moves ratings again, so the caller
// must feed each game exactly once.
type System struct {
	K       float64
	Initial float64
	store   Store
}

func NewSystem(store Store) *System {
	return &System{K: DefaultKFactor, Initial: DefaultInitialRating, store: store}
}

// expectedScore is the classic Elo expectation of a versus b.
func expectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

type participant struct {
	identity  string
	role      game.Role
	alignment game.Alignment
	rating    float64
}

// Apply updates every participant's ratings from one finished record.
//
// Each side's effective strength is the average of its members' current
// overall ratings, but a player's expected score is computed from their OWN
// rating against the opposing side's average. Players on the same side
// therefore receive different deltas when their ratings differ, and the
// two-player case degenerates to standard head-up Elo.
func (s *System) Apply(ctx context.Context, rec *game.Record) (*GameUpdate, error) {
	if rec.FinalResult.WinningSide == "" {
		return nil, fmt.Errorf("rating: record %s has no winning side", rec.GameID)
	}

	parts, err := s.loadParticipants(ctx, rec)
	if err != nil {
		return nil, err
	}

	var townSum, wolfSum float64
	var townN, wolfN int
	for _, p := range parts {
		if p.alignment == game.AlignmentTown {
			townSum += p.rating
			townN++
		} else {
			wolfSum += p.rating
			wolfN++
		}
	}
	townAvg, wolfAvg := s.Initial, s.Initial
	if townN > 0 {
		townAvg = townSum / float64(townN)
	}
	if wolfN > 0 {
		wolfAvg = wolfSum / float64(wolfN)
	}

	up := &GameUpdate{
		GameID:      rec.GameID,
		WinningSide: string(rec.FinalResult.WinningSide),
		TownAvg:     townAvg,
		WolfAvg:     wolfAvg,
	}

	for _, p := range parts {
		oppAvg := wolfAvg
		if p.alignment == game.AlignmentWolves {
			oppAvg = townAvg
		}
		expected := expectedScore(p.rating, oppAvg)
		actual := 0.0
		won := p.alignment == rec.FinalResult.WinningSide
		if won {
			actual = 1.0
		}
		change := s.K * (actual - expected)

		entry, err := s.store.UpdateEntry(ctx, p.identity, func(e *Entry) {
			e.Overall += change
			if e.Roles == nil {
				e.Roles = make(map[game.Role]float64)
			}
			if _, ok := e.Roles[p.role]; !ok {
				e.Roles[p.role] = s.Initial
			}
			e.Roles[p.role] += change
			e.GamesPlayed++
			if won {
				e.Wins++
				if p.alignment == game.AlignmentTown {
					e.WinsAsTown++
				} else {
					e.WinsAsWolf++
				}
			} else {
				e.Losses++
			}
			e.LastGameID = rec.GameID
			e.UpdatedAt = time.Now().UTC()
		})
		if err != nil {
			return nil, fmt.Errorf("rating: update %s: %w", p.identity, err)
		}

		up.Deltas = append(up.Deltas, Delta{
			Identity:  p.identity,
			Role:      p.role,
			Won:       won,
			Expected:  expected,
			Change:    change,
			NewRating: entry.Overall,
		})
	}

	if err := s.applyHeadToHead(ctx, parts, rec.FinalResult.WinningSide); err != nil {
		return nil, err
	}
	return up, nil
}

func (s *System) loadParticipants(ctx context.Context, rec *game.Record) ([]participant, error) {
	parts := make([]participant, 0, len(rec.Players))
	for _, pl := range rec.Players {
		identity := pl.Identity
		if identity == "" {
			identity = pl.ID
		}
		rating := s.Initial
		entry, err := s.store.GetEntry(ctx, identity)
		switch {
		case err == nil:
			rating = entry.Overall
		case errors.Is(err, ErrNotFound):
		default:
			return nil, fmt.Errorf("rating: load %s: %w", identity, err)
		}
		parts = append(parts, participant{
			identity:  identity,
			role:      pl.Role,
			alignment: pl.Role.Alignment(),
			rating:    rating,
		})
	}
	return parts, nil
}

// applyHeadToHead bumps every town-identity versus wolf-identity cell once.
func (s *System) applyHeadToHead(ctx context.Context, parts []participant, winner game.Alignment) error {
	for _, t := range parts {
		if t.alignment != game.AlignmentTown {
			continue
		}
		for _, w := range parts {
			if w.alignment != game.AlignmentWolves {
				continue
			}
			err := s.store.UpdateHeadToHead(ctx, t.identity, w.identity, func(h *HeadToHead) {
				h.GamesPlayed++
				if winner == game.AlignmentTown {
					h.TownWins++
				} else {
					h.WolfWins++
				}
			})
			if err != nil {
				return fmt.Errorf("rating: head-to-head %s vs %s: %w", t.identity, w.identity, err)
			}
		}
	}
	return nil
}

// HeadToHead returns every recorded town-versus-wolf matchup cell.
func (s *System) HeadToHead(ctx context.Context) ([]HeadToHead, error) {
	return s.store.ListHeadToHead(ctx)
}

// Leaderboard returns all entries ordered by overall rating, best first.
func (s *System) Leaderboard(ctx context.Context) ([]Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Overall != entries[j].Overall {
			return entries[i].Overall > entries[j].Overall
		}
		return entries[i].Identity < entries[j].Identity
	})
	return entries, nil
}
