package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/flagx"
)

// parseFlags overlays the CLI flags:
//
//	-a string   base URL of the API server
//	-t int      request timeout in seconds
//	-e string   directory for downloaded exports
//
// Other arguments are filtered out with flagx.FilterArgs so that -c/-config
// and unrelated flags do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "directory for downloaded exports")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
