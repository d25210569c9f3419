package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/gdeval-backend/internal/cache"
	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/database"
	"github.com/stemsi/gdeval-backend/internal/handler"
	"github.com/stemsi/gdeval-backend/internal/logger"
	"github.com/stemsi/gdeval-backend/internal/repository/driver"
	"github.com/stemsi/gdeval-backend/internal/router"
	"github.com/stemsi/gdeval-backend/internal/service"
	"github.com/stemsi/gdeval-backend/internal/validator"
	"github.com/stemsi/gdeval-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GD Evaluation Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Stores ───────────────────────────────────────────────────
	stores, closeStores, err := driver.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open stores")
	}
	defer closeStores()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	resultsCache := cache.NewResultsCache(rdb, cfg.ResultsCacheTTL)
	refreshQueue := cache.NewRefreshQueue(rdb)
	tokenRegistry := cache.NewTokenRegistry(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, tokenRegistry)
	userService := service.NewUserService(stores.Users, authService, log)
	sessionService := service.NewGDSessionService(stores.Sessions, log)
	evaluationService := service.NewEvaluationService(sessionService, stores.Evaluations, resultsCache, refreshQueue, log)
	scoreService := service.NewScoreService(stores.Evaluations)
	resultsService := service.NewResultsService(sessionService, stores.Evaluations, stores.Users, resultsCache, log)
	analyticsService := service.NewAnalyticsService(stores.Sessions, stores.Evaluations, stores.Users)
	exportService := service.NewExportService(resultsService, stores.Users, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService, log),
		Session:    handler.NewGDSessionHandler(sessionService, log),
		Evaluation: handler.NewEvaluationHandler(sessionService, evaluationService, scoreService, log),
		Results:    handler.NewResultsHandler(resultsService, analyticsService, exportService, log),
		WS:         handler.NewWSHandler(resultsService, resultsCache, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(refreshQueue, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	resultsWorker := worker.NewResultsWorker(refreshQueue, resultsService, resultsCache, log)
	go func() {
		defer close(workerDone)
		resultsWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the results worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Results worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
