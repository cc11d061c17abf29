// Package cli is the interactive MindCare terminal client.
//
// App talks to the HTTP API through internal/client/client and serves a
// line-oriented REPL (see runREPL). Passwords are read without echo. Data
// exports are downloaded from the presigned URL the server returns and
// written to the configured export directory.
package cli
