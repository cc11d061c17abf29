// Package config loads runtime configuration for the MindCare CLI.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. MINDCARE_CLI_SERVER_URL, MINDCARE_CLI_REQUEST_TIMEOUT and
//     MINDCARE_CLI_EXPORT_DIR environment variables.
//  4. Flags -a (server URL), -t (timeout in seconds) and -e (export dir).
//
// The JSON file accepts durations as "30s"-style strings or nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "30s",
//	  "export_dir": "exports"
//	}
package config
