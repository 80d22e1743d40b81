package config

import "github.com/caarlos0/env/v11"

// TestConfig points store integration tests at a throwaway database.
// Tests skip when the variable is unset.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
