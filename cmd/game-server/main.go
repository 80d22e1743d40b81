package main

import (
	"context"
	"net/http"
	"time"

	"werewolf-arena/internal/arena"
	"werewolf-arena/internal/config"
	"werewolf-arena/internal/logging"
	"werewolf-arena/internal/rating"
	"werewolf-arena/internal/store"
	httptransport "werewolf-arena/internal/transport/http"
	"werewolf-arena/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	closer, err := logging.Init(logCfg)
	if err != nil {
		panic(err)
	}
	defer closer.Close()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	elo := rating.NewSystem(st.Ratings(cfg.EloInitialRating))
	elo.K = cfg.EloKFactor
	elo.Initial = cfg.EloInitialRating

	hub := ws.NewHub()
	svc := arena.NewService(st, elo, hub, cfg.AgentTimeout)
	svc.DiscussionRounds = cfg.DiscussionRounds
	r := httptransport.NewRouter(cfg, st, elo, svc, st, hub)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
