package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/i-am-feyi/ai-travel-planner/app/db"
	appLogger "github.com/i-am-feyi/ai-travel-planner/app/logger"
	appMiddleware "github.com/i-am-feyi/ai-travel-planner/app/middleware"
	"github.com/i-am-feyi/ai-travel-planner/app/observability/metrics"
	"github.com/i-am-feyi/ai-travel-planner/app/tracer"
	"github.com/i-am-feyi/ai-travel-planner/config"
	generativeAI "github.com/i-am-feyi/ai-travel-planner/internal/api/generative_ai"
	"github.com/i-am-feyi/ai-travel-planner/internal/api/images"
	"github.com/i-am-feyi/ai-travel-planner/internal/api/trip"
	"github.com/i-am-feyi/ai-travel-planner/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(":9090")
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Outbound clients ---
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		logger.Error("Failed to initialize generative AI client", slog.Any("error", err))
		os.Exit(1)
	}
	unsplashClient := images.NewUnsplashClient(cfg.Unsplash.BaseURL, cfg.Unsplash.AccessKey, cfg.Unsplash.Timeout, nil)
	placesClient := images.NewPlacesClient(cfg.Places.BaseURL, cfg.Places.APIKey, cfg.Places.Timeout,
		cfg.Places.MaxWidthPx, cfg.Places.MaxHeightPx)
	enricher := images.NewEnricher(placesClient, logger)

	// --- Trip pipeline wiring ---
	tripRepo := trip.NewRepositoryImpl(pool, logger)
	tripService := trip.NewServiceImpl(aiClient, unsplashClient, enricher, tripRepo, logger)
	tripHandler := trip.NewTripHandler(tripService, logger)

	// --- Router ---
	mainRouter := router.SetupRouter(&router.Config{
		TripHandler:            tripHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate([]byte(cfg.Auth.JWTSecret), logger),
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
