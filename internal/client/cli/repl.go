package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/mindcare/internal/client/client"
)

// printlnFn is a test seam for REPL-level output.
var printlnFn = fmt.Println

// execIface is the command surface runREPL dispatches to. Every command
// receives the words following the command name.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	WellnessProfile(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Journal(ctx context.Context, args []string) error
	Journals(ctx context.Context, args []string) error
	Reflect(ctx context.Context, args []string) error
	Mood(ctx context.Context, args []string) error
	Moods(ctx context.Context, args []string) error
	Trend(ctx context.Context, args []string) error
	Insights(ctx context.Context, args []string) error
	Tips(ctx context.Context, args []string) error
	Affirmation(ctx context.Context, args []string) error
	Breathing(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: profile [show], wellness-profile, chat [message], history [clear], " +
		"journal, journals [n], reflect <id>, mood, moods [n], trend [n], insights, tips, affirmation, " +
		"breathing, export, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit"/"quit" or when ctx is cancelled. Command
// errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("mc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var run func(context.Context, []string) error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			run = a.Register
		case "login":
			run = a.Login

		case "logout":
			run = a.Logout
		case "profile":
			run = a.Profile
		case "wellness-profile":
			run = a.WellnessProfile
		case "chat":
			run = a.Chat
		case "history":
			run = a.History
		case "journal":
			run = a.Journal
		case "journals":
			run = a.Journals
		case "reflect":
			run = a.Reflect
		case "mood":
			run = a.Mood
		case "moods":
			run = a.Moods
		case "trend":
			run = a.Trend
		case "insights":
			run = a.Insights
		case "tips":
			run = a.Tips
		case "affirmation":
			run = a.Affirmation
		case "breathing":
			run = a.Breathing
		case "export":
			run = a.Export

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if cmd != "register" && cmd != "login" && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		if err := run(ctx, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

// describe renders command errors for the terminal.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn), errors.Is(err, client.ErrUnauthorized):
		return "session expired, please login again"
	case errors.Is(err, client.ErrUnavailable):
		return "server is unavailable, try again later"
	case errors.Is(err, client.ErrRateLimited):
		return "too many requests, slow down"
	case errors.As(err, &apiErr):
		if len(apiErr.Fields) == 0 {
			return apiErr.Message
		}
		var b strings.Builder
		b.WriteString(apiErr.Message)
		for _, k := range slices.Sorted(maps.Keys(apiErr.Fields)) {
			fmt.Fprintf(&b, "\n  %s %s", k, apiErr.Fields[k])
		}
		return b.String()
	}
	return err.Error()
}
