package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mindcare/internal/flagx"
	"github.com/dmitrijs2005/mindcare/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ExportDir      string         `json:"export_dir"`
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file keep their current value. Read or decode failures panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
}
