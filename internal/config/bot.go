package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	HTTPAddr  string `env:"BOT_HTTP_ADDR" envDefault:":9000"`
	AgentName string `env:"AGENT_NAME" envDefault:"dumb-bot"`
	Seed      int64  `env:"BOT_SEED" envDefault:"0"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
