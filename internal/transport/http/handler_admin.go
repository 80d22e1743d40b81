package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"werewolf-arena/internal/arena"
)

// MatchRunner is the arena service surface the admin API drives.
type MatchRunner interface {
	StartMatch(ctx context.Context, req arena.MatchRequest) (string, error)
	Match(gameID string) (arena.MatchStatus, error)
	Matches() []arena.MatchStatus
	RetryPending(ctx context.Context) []string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	runner MatchRunner
	db     Pinger
}

func NewAdminHandlers(runner MatchRunner, db Pinger) *AdminHandlers {
	return &AdminHandlers{runner: runner, db: db}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db != nil {
			if err := h.db.Ping(r.Context()); err != nil {
				WriteHTTPError(w, http.StatusServiceUnavailable, "db_unreachable")
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CreateMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req arena.MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		gameID, err := h.runner.StartMatch(r.Context(), req)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"game_id": gameID})
	}
}

func (h *AdminHandlers) Matches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"matches": h.runner.Matches()})
	}
}

func (h *AdminHandlers) Match() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.runner.Match(chi.URLParam(r, "game_id"))
		if err != nil {
			if errors.Is(err, arena.ErrMatchNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "match_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(st)
	}
}

func (h *AdminHandlers) RetrySettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settled := h.runner.RetryPending(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{"settled": settled})
	}
}
