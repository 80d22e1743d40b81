package config

// AppConfig bundles everything the referee daemon reads from the
// environment.
type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

// LoadApp parses all referee config in one call. Logging comes first so a
// bad server config can still be reported through the configured sink.
func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}
