package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concentration/internal/cache"
	"concentration/internal/config"
	"concentration/internal/db"
	"concentration/internal/game"
	httpServer "concentration/internal/http"
	"concentration/internal/logger"
	"concentration/internal/repository"
	"concentration/internal/service"
	"concentration/internal/ws"

	"github.com/gin-gonic/gin"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	logger.Init(cfg.LogLevel, cfg.JSONLogs())
	log := logger.Get()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	opts := service.ConcentrationOptions{
		Rows:   cfg.BoardRows,
		Cols:   cfg.BoardCols,
		Values: cfg.TileValues(),
		TTL:    cfg.SessionTTL,
	}
	if cfg.Shuffle {
		opts.Shuffle = game.CryptoShuffle
	}

	// postgres опционален: без него история и аудит не пишутся
	if cfg.DatabaseURL != "" {
		dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		defer dbPool.Close()

		if err := db.EnsureSchema(ctx, dbPool); err != nil {
			logger.Fatal("failed to prepare schema", "error", err)
		}
		opts.Games = repository.NewGameRepository(dbPool)
		opts.Audit = service.NewAuditService(dbPool)
	} else {
		log.Warn("DATABASE_URL not set - game history disabled")
	}

	// redis опционален: без него партии не переживают рестарт
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("redis unavailable, snapshots disabled", "error", err)
		} else {
			defer rdb.Close()
			opts.Snapshots = cache.NewSessionCache(rdb, cfg.SessionTTL)
		}
	}

	games, err := service.NewConcentrationService(opts)
	if err != nil {
		logger.Fatal("invalid board configuration", "error", err)
	}
	go games.RunCleanup(ctx, cfg.CleanupInterval)

	r := gin.Default()

	// CORS для фронта на другом домене
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.RouterDeps{
		Games:         games,
		Tokens:        service.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Hub:           ws.NewHub(),
		AllowedOrigin: cfg.AllowedOrigin,
		Version:       Version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version,
			"rows", cfg.BoardRows, "cols", cfg.BoardCols, "shuffle", cfg.Shuffle)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
