package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"uno_server/internal/config"
	"uno_server/internal/db"
	"uno_server/internal/game"
	httpServer "uno_server/internal/http"
	"uno_server/internal/http/handlers"
	"uno_server/internal/logger"
	"uno_server/internal/repository"
	"uno_server/internal/service"
	"uno_server/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handlers.Check)

	// snapshots: Redis when configured, otherwise in process
	var (
		rdb   *redis.Client
		store service.Store = repository.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		var err error
		rdb, err = db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to connect redis", "error", err)
		}
		defer rdb.Close()
		store = repository.NewSessionStore(rdb, repository.DefaultSessionKey)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// finished games: Postgres when configured
	var (
		history     service.HistoryRecorder
		historyRepo handlers.HistoryReader
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect database", "error", err)
		}
		defer pool.Close()
		repo := repository.NewGameHistoryRepository(pool)
		history, historyRepo = repo, repo
		checks["database"] = pool.Ping
	}

	hub := ws.NewHub()
	registry := game.NewRegistry()
	engine := service.NewEngine(registry, hub, store, history)
	if n, err := engine.Restore(ctx); err != nil {
		logger.Error("restore rooms failed", "error", err)
	} else if n > 0 {
		logger.Info("restored rooms from snapshots", "count", n)
	}
	engine.StartCleanup(ctx, cfg.RoomSweep, cfg.RoomMaxIdle)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: &handlers.Handler{
			Hub:           hub,
			Dispatcher:    engine,
			Tickets:       service.NewTicketIssuer(cfg.JWTSecret, time.Hour),
			HistoryRepo:   historyRepo,
			AllowedOrigin: cfg.AllowedOrigin,
			SendBuffer:    cfg.SendBuffer,
			HistoryLimit:  cfg.HistoryLimit,
		},
		Health: handlers.NewHealthHandler(version, checks, func() map[string]int {
			return map[string]int{"rooms": registry.Len(), "connections": hub.Len()}
		}),
		Redis:         rdb,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: cfg.APIRateWindow,
		StaticDir:     cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	// seats stay in the snapshots so clients can reconnect with their tickets
	hub.CloseAll()
	engine.Wait()

	logger.Info("server exited")
}
