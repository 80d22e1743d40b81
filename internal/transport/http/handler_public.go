package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"werewolf-arena/internal/game"
	"werewolf-arena/internal/metrics"
	"werewolf-arena/internal/rating"
	"werewolf-arena/internal/store"
)

// RecordReader is the read-only slice of the store the public API serves.
type RecordReader interface {
	GetRecord(ctx context.Context, gameID string) (*game.Record, error)
	ListRecords(ctx context.Context, limit, offset int) ([]store.RecordSummary, error)
	GetReport(ctx context.Context, gameID string) (*metrics.Report, error)
}

// RatingReader exposes the rating system's query surface.
type RatingReader interface {
	Leaderboard(ctx context.Context) ([]rating.Entry, error)
	HeadToHead(ctx context.Context) ([]rating.HeadToHead, error)
}

type PublicHandlers struct {
	records RecordReader
	ratings RatingReader
}

func NewPublicHandlers(records RecordReader, ratings RatingReader) *PublicHandlers {
	return &PublicHandlers{records: records, ratings: ratings}
}

func (h *PublicHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		games, err := h.records.ListRecords(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"games": games})
	}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.records.GetRecord(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "game_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(rec)
	}
}

func (h *PublicHandlers) Report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := h.records.GetReport(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "report_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(rep)
	}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := h.ratings.Leaderboard(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"leaderboard": board})
	}
}

func (h *PublicHandlers) HeadToHead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cells, err := h.ratings.HeadToHead(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"head_to_head": cells})
	}
}
