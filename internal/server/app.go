// Package server wires the MindCare server: storage, chat history, the
// assistant, the HTTP API and the gRPC health endpoint. Run blocks until a
// termination signal arrives and then shuts both servers down gracefully.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/logging"
	"github.com/dmitrijs2005/mindcare/internal/server/api"
	"github.com/dmitrijs2005/mindcare/internal/server/assistant"
	"github.com/dmitrijs2005/mindcare/internal/server/chathistory"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/observability"
	"github.com/dmitrijs2005/mindcare/internal/server/ratelimit"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mindcare/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/mindcare/internal/server/grpc"
)

const (
	shutdownTimeout  = 10 * time.Second
	limiterIdleAfter = 10 * time.Minute
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := repomanager.OpenDB(ctx, c.DatabaseDriver, c.DatabaseDSN, c.DatabaseMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	history, err := app.chatHistory(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	metrics := observability.NewMetrics()

	asst := assistant.NewClient(assistant.Config{
		APIKey:  c.AssistantAPIKey,
		BaseURL: c.AssistantBaseURL,
		Model:   c.AssistantModel,
		Timeout: c.AssistantTimeout,
	}, assistant.WithLogger(logger.With("module", "assistant")), assistant.WithRecorder(metrics))
	if asst.Offline() {
		logger.Warn(ctx, "assistant API key not set, running with local fallbacks only")
	}

	profiles := services.NewProfileService(db, rm, c)

	gin.SetMode(gin.ReleaseMode)
	app.handler = api.NewRouter(api.Deps{
		Auth:        services.NewUserService(db, rm, c),
		Profiles:    profiles,
		Journals:    services.NewJournalService(db, rm, asst, c),
		Moods:       services.NewMoodService(db, rm, asst, c),
		Chat:        services.NewChatService(asst, history),
		Wellness:    services.NewWellnessService(profiles, asst),
		Export:      services.NewExportService(db, rm, c),
		Metrics:     metrics,
		AuthLimiter: ratelimit.NewPerMinute(c.AuthRequestsPerMinute, c.AuthBurst, limiterIdleAfter),
		ChatLimiter: ratelimit.NewPerMinute(c.ChatRequestsPerMinute, c.ChatBurst, limiterIdleAfter),
		Logger:      logger.With("module", "http"),
		Ready:       db.PingContext,
	})

	return app, nil
}

// chatHistory picks Redis when an address is configured and falls back to
// process memory otherwise.
func (app *App) chatHistory(ctx context.Context) (chathistory.Store, error) {
	c := app.config
	if c.RedisAddr == "" {
		return chathistory.NewMemoryStore(c.ChatHistoryLimit), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	pctx, cancel := context.WithTimeout(ctx, c.DatabaseTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	app.redis = rdb
	return chathistory.NewRedisStore(rdb, c.ChatHistoryLimit, c.ChatHistoryTTL), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext, gs.DefaultProbeInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(context.Background(), "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}
