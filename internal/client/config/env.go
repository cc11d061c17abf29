package config

import "github.com/dmitrijs2005/mindcare/internal/flagx"

const EnvPrefix = "MINDCARE_CLI_"

func parseEnv(cfg *Config) {
	flagx.EnvString(EnvPrefix+"SERVER_URL", &cfg.ServerURL)
	flagx.EnvDuration(EnvPrefix+"REQUEST_TIMEOUT", &cfg.RequestTimeout)
	flagx.EnvString(EnvPrefix+"EXPORT_DIR", &cfg.ExportDir)
}
