package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	AgentTimeout     time.Duration `env:"AGENT_TIMEOUT" envDefault:"10s"`
	DiscussionRounds int           `env:"DISCUSSION_ROUNDS" envDefault:"1"`

	EloKFactor       float64 `env:"ELO_K_FACTOR" envDefault:"32"`
	EloInitialRating float64 `env:"ELO_INITIAL_RATING" envDefault:"1500"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
