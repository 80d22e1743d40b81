// Package arena runs matches end to end: role assignment, the game loop
// against live agents, then settlement (record persistence, the metrics
// report, and rating updates).
package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"werewolf-arena/internal/agentclient"
	"werewolf-arena/internal/game"
	"werewolf-arena/internal/metrics"
	"werewolf-arena/internal/rating"
	"werewolf-arena/internal/store"
)

// PlayerSpec names one participant: the per-game id, the stable identity
// used for ratings, and the agent's base URL.
type PlayerSpec struct {
	ID       string `json:"id"`
	Alias    string `json:"alias,omitempty"`
	Identity string `json:"identity"`
	BaseURL  string `json:"base_url"`
}

type MatchRequest struct {
	Seed    int64        `json:"seed"`
	Players []PlayerSpec `json:"players"`
}

const (
	StatusRunning       = "running"
	StatusFinished      = "finished"
	StatusFailed        = "failed"
	StatusPersistFailed = "persist_failed"
)

// MatchStatus is the externally visible state of one match.
type MatchStatus struct {
	GameID      string    `json:"game_id"`
	Status      string    `json:"status"`
	WinningSide string    `json:"winning_side,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// Recorder is the persistence slice of the store the service needs.
type Recorder interface {
	SaveRecord(ctx context.Context, rec *game.Record) (string, error)
	SaveReport(ctx context.Context, gameID string, rep *metrics.Report) error
}

// Observer receives live phase and result notifications (the spectator hub).
type Observer interface {
	game.Observer
	GameFinished(gameID string, result game.FinalResult)
}

// Service owns match lifecycles. Each running match has its own state and
// loop; the service only shares the settlement path.
type Service struct {
	recorder Recorder
	elo      *rating.System
	engine   *metrics.Engine
	observer Observer
	timeout  time.Duration

	// SourceFactory builds the action source for one match. Tests swap it
	// for a scripted source.
	SourceFactory func(bases map[string]string, timeout time.Duration) game.ActionSource

	// DiscussionRounds is the number of discussion passes before each day's
	// vote. Zero means one.
	DiscussionRounds int

	mu      sync.Mutex
	matches map[string]*MatchStatus
	pending map[string]*game.Record
}

func NewService(recorder Recorder, elo *rating.System, observer Observer, agentTimeout time.Duration) *Service {
	return &Service{
		recorder: recorder,
		elo:      elo,
		engine:   metrics.NewEngine(),
		observer: observer,
		timeout:  agentTimeout,
		SourceFactory: func(bases map[string]string, timeout time.Duration) game.ActionSource {
			return agentclient.New(bases, timeout)
		},
		matches: make(map[string]*MatchStatus),
		pending: make(map[string]*game.Record),
	}
}

// StartMatch validates the roster, deals roles from the seed and launches
// the game loop in the background. It returns the new game id immediately.
func (s *Service) StartMatch(ctx context.Context, req MatchRequest) (string, error) {
	if len(req.Players) < 4 {
		return "", fmt.Errorf("need at least 4 players, got %d", len(req.Players))
	}
	seen := make(map[string]bool, len(req.Players))
	bases := make(map[string]string, len(req.Players))
	roster := make([]game.Player, 0, len(req.Players))
	for _, p := range req.Players {
		if p.ID == "" || p.BaseURL == "" {
			return "", fmt.Errorf("player %q needs an id and a base url", p.ID)
		}
		if seen[p.ID] {
			return "", fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
		bases[p.ID] = p.BaseURL
		roster = append(roster, game.Player{ID: p.ID, Alias: p.Alias, Identity: p.Identity})
	}

	assigned, err := game.AssignRoles(roster, req.Seed)
	if err != nil {
		return "", err
	}
	st, err := game.NewState(assigned)
	if err != nil {
		return "", err
	}

	gameID := store.NewID()
	loop := game.NewLoop(gameID, req.Seed, st, s.SourceFactory(bases, s.timeout))
	loop.Rounds = s.DiscussionRounds
	if s.observer != nil {
		loop.Observer = s.observer
	}

	s.mu.Lock()
	s.matches[gameID] = &MatchStatus{GameID: gameID, Status: StatusRunning, StartedAt: time.Now().UTC()}
	s.mu.Unlock()

	go s.play(context.WithoutCancel(ctx), loop)
	return gameID, nil
}

func (s *Service) play(ctx context.Context, loop *game.Loop) {
	rec, err := loop.Run(ctx)
	if err != nil {
		// Invariant violation: this one game is lost, nothing is persisted.
		log.Error().Err(err).Str("game_id", loop.GameID).Msg("match aborted")
		s.setStatus(loop.GameID, func(st *MatchStatus) {
			st.Status = StatusFailed
			st.Error = err.Error()
		})
		return
	}
	if s.observer != nil {
		s.observer.GameFinished(rec.GameID, rec.FinalResult)
	}
	s.settle(ctx, rec)
}

// settle persists the finished record and derives its report and rating
// deltas. On a storage failure the record is kept in memory so the caller
// can retry persistence without replaying the game.
func (s *Service) settle(ctx context.Context, rec *game.Record) {
	if _, err := s.recorder.SaveRecord(ctx, rec); err != nil {
		log.Error().Err(err).Str("game_id", rec.GameID).Msg("record persistence failed, parked for retry")
		s.mu.Lock()
		s.pending[rec.GameID] = rec
		s.mu.Unlock()
		s.setStatus(rec.GameID, func(st *MatchStatus) {
			st.Status = StatusPersistFailed
			st.Error = err.Error()
			st.WinningSide = string(rec.FinalResult.WinningSide)
		})
		return
	}

	rep := s.engine.Build(rec)
	if err := s.recorder.SaveReport(ctx, rec.GameID, rep); err != nil {
		log.Error().Err(err).Str("game_id", rec.GameID).Msg("report persistence failed")
	}
	if _, err := s.elo.Apply(ctx, rec); err != nil {
		log.Error().Err(err).Str("game_id", rec.GameID).Msg("rating update failed")
	}

	s.setStatus(rec.GameID, func(st *MatchStatus) {
		st.Status = StatusFinished
		st.Error = ""
		st.WinningSide = string(rec.FinalResult.WinningSide)
	})
	log.Info().Str("game_id", rec.GameID).Str("winner", string(rec.FinalResult.WinningSide)).Msg("match settled")
}

// RetryPending re-attempts settlement for every parked record. It returns
// the ids that settled this pass.
func (s *Service) RetryPending(ctx context.Context) []string {
	s.mu.Lock()
	parked := make([]*game.Record, 0, len(s.pending))
	for _, rec := range s.pending {
		parked = append(parked, rec)
	}
	s.mu.Unlock()

	var settled []string
	for _, rec := range parked {
		s.settle(ctx, rec)
		s.mu.Lock()
		if st := s.matches[rec.GameID]; st != nil && st.Status == StatusFinished {
			delete(s.pending, rec.GameID)
			settled = append(settled, rec.GameID)
		}
		s.mu.Unlock()
	}
	return settled
}

var ErrMatchNotFound = errors.New("match not found")

func (s *Service) Match(gameID string) (MatchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.matches[gameID]
	if !ok {
		return MatchStatus{}, ErrMatchNotFound
	}
	return *st, nil
}

func (s *Service) Matches() []MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MatchStatus, 0, len(s.matches))
	for _, st := range s.matches {
		out = append(out, *st)
	}
	return out
}

func (s *Service) setStatus(gameID string, fn func(*MatchStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.matches[gameID]; ok {
		fn(st)
	}
}
