// dumb-bot is a baseline agent: it answers every phase request with a
// uniformly random legal choice. Useful for smoke-testing the server and as
// a rating floor for real agents.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"werewolf-arena/internal/config"
	"werewolf-arena/internal/game"
)

type bot struct {
	name string

	mu  sync.Mutex
	rnd *rand.Rand
}

func (b *bot) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return options[b.rnd.Intn(len(options))]
}

func (b *bot) nightAction(w http.ResponseWriter, r *http.Request) {
	var req game.NightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	action := game.NightAction{PlayerID: req.PlayerID}
	switch req.Role {
	case game.RoleWerewolf, game.RoleDetective:
		action.Target = b.pick(req.Options)
	case game.RoleDoctor:
		action.Decision = req.SaveAvailable && req.AttackedPlayer != ""
	}
	writeJSON(w, action)
}

func (b *bot) discussion(w http.ResponseWriter, r *http.Request) {
	var req game.DiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	suspect := b.pick(others(req.Alive, req.PlayerID))
	turn := game.DiscussionTurn{
		Speaker: req.PlayerID,
		Text:    fmt.Sprintf("maybe %s is suspicious", suspect),
	}
	if suspect == "" {
		turn.Text = "I have nothing to add"
	}
	writeJSON(w, turn)
}

func (b *bot) vote(w http.ResponseWriter, r *http.Request) {
	var req game.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, game.Ballot{
		Voter:  req.PlayerID,
		Target: b.pick(others(req.Options, req.PlayerID)),
		Reason: "gut feeling",
	})
}

func others(ids []string, self string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal(err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b := &bot{name: cfg.AgentName, rnd: rand.New(rand.NewSource(seed))}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Post("/agent/night_action", b.nightAction)
	r.Post("/agent/discussion", b.discussion)
	r.Post("/agent/vote", b.vote)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok", "agent": b.name})
	})

	log.Printf("%s listening on %s", cfg.AgentName, cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
