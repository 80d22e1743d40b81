package agentclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"werewolf-arena/internal/game"
)

func agentServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNightActionsGatherAndAbstain(t *testing.T) {
	good := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agent/night_action" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req game.NightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(game.NightAction{Target: "p4"})
	})
	broken := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := New(map[string]string{"p0": good.URL, "p1": broken.URL}, time.Second)
	actions := c.NightActions(context.Background(), []game.NightRequest{
		{PlayerID: "p0", Role: game.RoleWerewolf, Night: 1},
		{PlayerID: "p1", Role: game.RoleWerewolf, Night: 1},
		{PlayerID: "p9", Role: game.RoleVillager, Night: 1}, // no agent registered
	})

	if len(actions) != 1 {
		t.Fatalf("want only the healthy agent's action, got %v", actions)
	}
	got := actions["p0"]
	if got.PlayerID != "p0" || got.Target != "p4" {
		t.Fatalf("action = %+v", got)
	}
}

func TestNightActionsTimeoutIsAbstention(t *testing.T) {
	slow := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(game.NightAction{Target: "p4"})
	})

	c := New(map[string]string{"p0": slow.URL}, 20*time.Millisecond)
	actions := c.NightActions(context.Background(), []game.NightRequest{
		{PlayerID: "p0", Role: game.RoleWerewolf, Night: 1},
	})
	if len(actions) != 0 {
		t.Fatalf("slow agent should abstain, got %v", actions)
	}
}

func TestDiscussionTurnsPreserveRequestOrder(t *testing.T) {
	speak := func(text string) *httptest.Server {
		return agentServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(game.DiscussionTurn{Text: text})
		})
	}
	first := speak("first")
	second := speak("second")

	c := New(map[string]string{"p0": first.URL, "p1": second.URL}, time.Second)
	turns := c.DiscussionTurns(context.Background(), []game.DiscussionRequest{
		{PlayerID: "p0", Day: 1},
		{PlayerID: "p1", Day: 1},
	})

	if len(turns) != 2 {
		t.Fatalf("turns = %+v", turns)
	}
	if turns[0].Speaker != "p0" || turns[0].Text != "first" || turns[1].Speaker != "p1" {
		t.Fatalf("order lost: %+v", turns)
	}
}

func TestVotesDropEmptyTargets(t *testing.T) {
	voter := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(game.Ballot{Target: "p2", Reason: "suspicious"})
	})
	abstainer := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(game.Ballot{})
	})

	c := New(map[string]string{"p0": voter.URL, "p1": abstainer.URL}, time.Second)
	ballots := c.Votes(context.Background(), []game.VoteRequest{
		{PlayerID: "p0", Day: 1, Options: []string{"p1", "p2"}},
		{PlayerID: "p1", Day: 1, Options: []string{"p0", "p2"}},
	})

	if len(ballots) != 1 {
		t.Fatalf("ballots = %+v", ballots)
	}
	if ballots[0].Voter != "p0" || ballots[0].Target != "p2" {
		t.Fatalf("ballot = %+v", ballots[0])
	}
}

func TestVotesIgnoreSpoofedVoterField(t *testing.T) {
	spoofer := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(game.Ballot{Voter: "somebody-else", Target: "p2"})
	})

	c := New(map[string]string{"p0": spoofer.URL}, time.Second)
	ballots := c.Votes(context.Background(), []game.VoteRequest{{PlayerID: "p0", Day: 1}})
	if len(ballots) != 1 || ballots[0].Voter != "p0" {
		t.Fatalf("voter identity not pinned: %+v", ballots)
	}
}
