package config

import "time"

// Config holds runtime settings for the MindCare CLI.
type Config struct {
	// ServerURL is the base URL of the HTTP API.
	ServerURL string
	// RequestTimeout bounds every HTTP round trip.
	RequestTimeout time.Duration
	// ExportDir receives downloaded data exports.
	ExportDir string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.ExportDir = "exports"
}

// LoadConfig applies defaults, then the JSON file, then MINDCARE_CLI_*
// environment variables and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
