package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"werewolf-arena/internal/config"
	"werewolf-arena/internal/ws"
)

func NewRouter(cfg config.ServerConfig, records RecordReader, ratings RatingReader, runner MatchRunner, db Pinger, hub *ws.Hub) *chi.Mux {
	publicHandlers := NewPublicHandlers(records, ratings)
	adminHandlers := NewAdminHandlers(runner, db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	if hub != nil {
		r.Get("/ws", hub.HandleWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/public/games", publicHandlers.Games())
		r.Get("/public/games/{game_id}", publicHandlers.Game())
		r.Get("/public/games/{game_id}/report", publicHandlers.Report())
		r.Get("/public/leaderboard", publicHandlers.Leaderboard())
		r.Get("/public/head-to-head", publicHandlers.HeadToHead())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/matches", adminHandlers.CreateMatch())
			r.Get("/matches", adminHandlers.Matches())
			r.Get("/matches/{game_id}", adminHandlers.Match())
			r.Post("/matches/retry-settlement", adminHandlers.RetrySettlement())
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	})
	return r
}
