// Package api exposes the MindCare services over HTTP with gin.
//
// Every route under /v1 except the auth group requires a bearer access
// token. The authenticated user id is taken from the token and handed to the
// services explicitly.
package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mindcare/internal/logging"
	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
	"github.com/dmitrijs2005/mindcare/internal/server/chathistory"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/observability"
	"github.com/dmitrijs2005/mindcare/internal/server/ratelimit"
	"github.com/dmitrijs2005/mindcare/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UserIDFromAccessToken(token string) (int64, error)
}

type ProfileService interface {
	SaveNutrition(ctx context.Context, userID int64, n models.NutritionProfile) (*models.Profile, error)
	SaveWellness(ctx context.Context, userID int64, w models.WellnessProfile) (*models.Profile, error)
	Get(ctx context.Context, userID int64) (*models.Profile, error)
}

type JournalService interface {
	Create(ctx context.Context, userID int64, in services.JournalInput) (*models.JournalEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error)
	Reflect(ctx context.Context, userID, entryID int64) (string, error)
}

type MoodService interface {
	Create(ctx context.Context, userID int64, in services.MoodInput) (*models.MoodEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]models.MoodEntry, error)
	Trend(ctx context.Context, userID int64, n int) ([]models.MoodPoint, error)
	Insights(ctx context.Context, userID int64) (string, models.MoodSummary, error)
}

type ChatService interface {
	Send(ctx context.Context, userID int64, message string) (string, error)
	History(ctx context.Context, userID int64) ([]chathistory.Message, error)
	Clear(ctx context.Context, userID int64) error
}

type WellnessService interface {
	Tips(ctx context.Context, userID int64) (string, error)
	Affirmation() string
	Breathing() assistant.BreathingExercise
}

type ExportService interface {
	Export(ctx context.Context, userID int64) (*services.ExportResult, error)
}

// Deps wires the router. AuthLimiter and ChatLimiter may be nil to disable
// rate limiting; Ready may be nil when there is nothing to probe.
type Deps struct {
	Auth     AuthService
	Profiles ProfileService
	Journals JournalService
	Moods    MoodService
	Chat     ChatService
	Wellness WellnessService
	Export   ExportService

	Metrics     *observability.Metrics
	AuthLimiter *ratelimit.Keyed
	ChatLimiter *ratelimit.Keyed
	Logger      logging.Logger
	Ready       func(ctx context.Context) error
}

type handler struct {
	Deps
}

// NewRouter builds the gin engine serving the MindCare API.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewMetrics()
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(d.Logger), Observe(d.Metrics))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth", RateLimit(d.AuthLimiter, "auth", d.Metrics, clientIPKey))
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/refresh", h.refresh)
	authGroup.POST("/logout", h.logout)

	priv := v1.Group("", Authenticate(d.Auth))
	priv.GET("/me", h.me)

	priv.GET("/profile", h.getProfile)
	priv.PUT("/profile/nutrition", h.saveNutrition)
	priv.PUT("/profile/wellness", h.saveWellness)

	chat := priv.Group("/chat")
	chat.POST("", RateLimit(d.ChatLimiter, "chat", d.Metrics, userKey), h.sendChat)
	chat.GET("/history", h.chatHistory)
	chat.DELETE("/history", h.clearChat)

	priv.GET("/wellness/tips", h.tips)
	priv.GET("/wellness/affirmation", h.affirmation)
	priv.GET("/wellness/breathing", h.breathing)

	priv.POST("/journal", h.createJournal)
	priv.GET("/journal", h.listJournal)
	priv.POST("/journal/:id/reflection", h.reflect)

	priv.POST("/moods", h.createMood)
	priv.GET("/moods", h.listMoods)
	priv.GET("/moods/trend", h.moodTrend)
	priv.GET("/moods/insights", h.moodInsights)

	priv.POST("/export", h.export)

	return r
}

func (h *handler) health(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(c.Request.Context()); err != nil {
			h.Logger.Error(c.Request.Context(), "readiness probe failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
