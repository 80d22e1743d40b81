package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"werewolf-arena/internal/arena"
	"werewolf-arena/internal/config"
	"werewolf-arena/internal/game"
	"werewolf-arena/internal/metrics"
	"werewolf-arena/internal/rating"
	"werewolf-arena/internal/store"
)

type fakeRecords struct {
	record *game.Record
	report *metrics.Report
}

func (f *fakeRecords) GetRecord(_ context.Context, gameID string) (*game.Record, error) {
	if f.record != nil && f.record.GameID == gameID {
		return f.record, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeRecords) ListRecords(_ context.Context, _, _ int) ([]store.RecordSummary, error) {
	if f.record == nil {
		return nil, nil
	}
	return []store.RecordSummary{{GameID: f.record.GameID, WinningSide: string(f.record.FinalResult.WinningSide)}}, nil
}

func (f *fakeRecords) GetReport(_ context.Context, gameID string) (*metrics.Report, error) {
	if f.report != nil && f.report.GameID == gameID {
		return f.report, nil
	}
	return nil, store.ErrNotFound
}

type fakeRatings struct {
	entries []rating.Entry
	cells   []rating.HeadToHead
}

func (f *fakeRatings) Leaderboard(context.Context) ([]rating.Entry, error) { return f.entries, nil }

func (f *fakeRatings) HeadToHead(context.Context) ([]rating.HeadToHead, error) {
	return f.cells, nil
}

type fakeRunner struct {
	started []arena.MatchRequest
	status  map[string]arena.MatchStatus
}

func (f *fakeRunner) StartMatch(_ context.Context, req arena.MatchRequest) (string, error) {
	f.started = append(f.started, req)
	return "g-new", nil
}

func (f *fakeRunner) Match(gameID string) (arena.MatchStatus, error) {
	st, ok := f.status[gameID]
	if !ok {
		return arena.MatchStatus{}, arena.ErrMatchNotFound
	}
	return st, nil
}

func (f *fakeRunner) Matches() []arena.MatchStatus {
	out := make([]arena.MatchStatus, 0, len(f.status))
	for _, st := range f.status {
		out = append(out, st)
	}
	return out
}

func (f *fakeRunner) RetryPending(context.Context) []string { return nil }

func testRouter(cfg config.ServerConfig, rec *fakeRecords, run *fakeRunner) *httptest.Server {
	ratings := &fakeRatings{entries: []rating.Entry{{Identity: "model-a", Overall: 1516}}}
	return httptest.NewServer(NewRouter(cfg, rec, ratings, run, nil, nil))
}

func TestPublicGameEndpoints(t *testing.T) {
	rec := &fakeRecords{
		record: &game.Record{GameID: "g1", FinalResult: game.FinalResult{WinningSide: game.AlignmentTown}},
		report: &metrics.Report{GameID: "g1"},
	}
	srv := testRouter(config.ServerConfig{}, rec, &fakeRunner{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/public/games/g1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got game.Record
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.GameID != "g1" || got.FinalResult.WinningSide != game.AlignmentTown {
		t.Fatalf("record = %+v", got)
	}

	if resp, _ := http.Get(srv.URL + "/api/public/games/missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing game status = %d", resp.StatusCode)
	}
	if resp, _ := http.Get(srv.URL + "/api/public/games/g1/report"); resp.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d", resp.StatusCode)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv := testRouter(config.ServerConfig{}, &fakeRecords{}, &fakeRunner{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/public/leaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Leaderboard []rating.Entry `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Leaderboard) != 1 || body.Leaderboard[0].Identity != "model-a" {
		t.Fatalf("leaderboard = %+v", body.Leaderboard)
	}
}

func TestAdminAuthGate(t *testing.T) {
	run := &fakeRunner{status: map[string]arena.MatchStatus{}}
	srv := testRouter(config.ServerConfig{AdminAPIKey: "secret"}, &fakeRecords{}, run)
	defer srv.Close()

	body := `{"seed":1,"players":[]}`
	resp, err := http.Post(srv.URL+"/api/matches", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/matches", strings.NewReader(body))
	req.Header.Set("X-Admin-Key", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authed post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("authed status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["game_id"] != "g-new" || len(run.started) != 1 {
		t.Fatalf("start not recorded: %v / %+v", out, run.started)
	}
}

func TestMatchLookup(t *testing.T) {
	run := &fakeRunner{status: map[string]arena.MatchStatus{
		"g1": {GameID: "g1", Status: arena.StatusFinished, WinningSide: "town"},
	}}
	srv := testRouter(config.ServerConfig{}, &fakeRecords{}, run)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/matches/g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var st arena.MatchStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != arena.StatusFinished || st.WinningSide != "town" {
		t.Fatalf("status = %+v", st)
	}

	if resp, _ := http.Get(srv.URL + "/api/matches/missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing match status = %d", resp.StatusCode)
	}
}

func TestCreateMatchRejectsBadJSON(t *testing.T) {
	srv := testRouter(config.ServerConfig{}, &fakeRecords{}, &fakeRunner{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/matches", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
