// Package agentclient talks to external agent processes over HTTP and
// implements game.ActionSource. Every phase fans one request out per player
// and joins before returning; a player whose agent is unreachable, slow, or
// answers garbage simply abstains.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"werewolf-arena/internal/game"
)

const maxResponseBytes = 1 << 20

// Client fans phase requests out to per-player agent base URLs.
type Client struct {
	http    *http.Client
	timeout time.Duration
	bases   map[string]string
	log     zerolog.Logger
}

// New builds a client. bases maps player id to the agent's base URL
// (e.g. "http://agent-a:9000"); timeout bounds each individual call.
func New(bases map[string]string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	copied := make(map[string]string, len(bases))
	for id, base := range bases {
		copied[id] = base
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		bases:   copied,
		log:     log.With().Str("component", "agentclient").Logger(),
	}
}

func (c *Client) NightActions(ctx context.Context, reqs []game.NightRequest) map[string]game.NightAction {
	out := make(map[string]game.NightAction, len(reqs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, req := range reqs {
		req := req
		wg.Add(1)
		go func() {
			defer wg.Done()
			var action game.NightAction
			if err := c.post(ctx, req.PlayerID, "/agent/night_action", req, &action); err != nil {
				c.log.Warn().Err(err).Str("player", req.PlayerID).Int("night", req.Night).Msg("night action lost, treating as abstention")
				return
			}
			action.PlayerID = req.PlayerID
			mu.Lock()
			out[req.PlayerID] = action
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func (c *Client) DiscussionTurns(ctx context.Context, reqs []game.DiscussionRequest) []game.DiscussionTurn {
	slots := make([]*game.DiscussionTurn, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			var turn game.DiscussionTurn
			if err := c.post(ctx, req.PlayerID, "/agent/discussion", req, &turn); err != nil {
				c.log.Warn().Err(err).Str("player", req.PlayerID).Int("day", req.Day).Msg("discussion turn lost")
				return
			}
			if turn.Text == "" {
				return
			}
			turn.Speaker = req.PlayerID
			slots[i] = &turn
		}()
	}
	wg.Wait()

	// Speaking order is the request order, holes skipped.
	out := make([]game.DiscussionTurn, 0, len(reqs))
	for _, t := range slots {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func (c *Client) Votes(ctx context.Context, reqs []game.VoteRequest) []game.Ballot {
	slots := make([]*game.Ballot, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			var b game.Ballot
			if err := c.post(ctx, req.PlayerID, "/agent/vote", req, &b); err != nil {
				c.log.Warn().Err(err).Str("player", req.PlayerID).Int("day", req.Day).Msg("ballot lost, treating as abstention")
				return
			}
			if b.Target == "" {
				return
			}
			b.Voter = req.PlayerID
			slots[i] = &b
		}()
	}
	wg.Wait()

	out := make([]game.Ballot, 0, len(reqs))
	for _, b := range slots {
		if b != nil {
			out = append(out, *b)
		}
	}
	return out
}

func (c *Client) post(ctx context.Context, playerID, path string, payload, into any) error {
	base, ok := c.bases[playerID]
	if !ok {
		return fmt.Errorf("no agent registered for %s", playerID)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("agent %s returned %d", playerID, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(into)
}
