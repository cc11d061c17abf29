package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/dmitrijs2005/mindcare/internal/client/client"
	"github.com/dmitrijs2005/mindcare/internal/client/config"
	"github.com/dmitrijs2005/mindcare/internal/client/models"
)

// apiClient is the part of *client.Client the commands use.
type apiClient interface {
	LoggedIn() bool
	Health(ctx context.Context) error
	Register(ctx context.Context, name, email, phone, password, confirm string) (*models.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Profile(ctx context.Context) (*models.Profile, error)
	SaveNutrition(ctx context.Context, n models.NutritionProfile) (*models.Profile, error)
	SaveWellness(ctx context.Context, w models.WellnessProfile) (*models.Profile, error)
	Chat(ctx context.Context, message string) (string, error)
	ChatHistory(ctx context.Context) ([]models.ChatMessage, error)
	ClearChat(ctx context.Context) error
	Tips(ctx context.Context) (string, error)
	Affirmation(ctx context.Context) (string, error)
	Breathing(ctx context.Context) (*models.BreathingExercise, error)
	CreateJournal(ctx context.Context, e models.JournalEntry) (*models.JournalEntry, error)
	Journal(ctx context.Context, limit int) ([]models.JournalEntry, error)
	Reflect(ctx context.Context, entryID int64) (string, error)
	CreateMood(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error)
	Moods(ctx context.Context, limit int) ([]models.MoodEntry, error)
	Trend(ctx context.Context, n int) ([]models.MoodPoint, error)
	Insights(ctx context.Context) (*models.Insights, error)
	Export(ctx context.Context) (*models.ExportResult, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	download *http.Client
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) *App {
	return &App{
		config:   c,
		api:      client.New(c.ServerURL, c.RequestTimeout),
		download: &http.Client{Timeout: c.RequestTimeout},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" || !a.isLoggedIn() {
		return ""
	}
	return "(" + a.userName + ")"
}

// Run checks the server once, then serves the REPL until the user exits or
// stdin closes. The session is logged out on the way out.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to MindCare CLI (type 'help' for commands)")

	if err := a.api.Health(ctx); err != nil {
		log.Printf("server %s is not reachable yet: %v", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.api.Logout(context.WithoutCancel(ctx))
	}
}
