package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/turmarkt/trendyol-catalog/internal/api"
	"github.com/turmarkt/trendyol-catalog/internal/catalog"
	"github.com/turmarkt/trendyol-catalog/internal/config"
	"github.com/turmarkt/trendyol-catalog/internal/database"
	"github.com/turmarkt/trendyol-catalog/internal/events"
	"github.com/turmarkt/trendyol-catalog/internal/observability"
	"github.com/turmarkt/trendyol-catalog/internal/scraper"
	"github.com/turmarkt/trendyol-catalog/internal/updater"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	relay := database.NewRelay(db, redisClient, logger, database.RelayConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	observability.Register()

	publisher := events.NewPublisher(db, logger)
	scraperSvc := scraper.NewService(cfg.Scraper, logger)
	catalogSvc := catalog.NewService(db, publisher, logger)
	updaterSvc := updater.New(scraperSvc, catalogSvc, cfg.Scraper.ConcurrentLimit, logger)

	handlers := api.NewHandlers(scraperSvc, catalogSvc, updaterSvc, logger)
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.NewRouter(handlers, cfg.Server.APIToken),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
