package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/luckydraw-backend/api/routes"
	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/events"
	"github.com/ArowuTest/luckydraw-backend/internal/handlers"
	"github.com/ArowuTest/luckydraw-backend/internal/metrics"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/luckydraw-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/luckydraw-backend/internal/rng"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"github.com/ArowuTest/luckydraw-backend/pkg/mongodb"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A missing .env file is fine outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Winner archive and event log
	var (
		winnerRepo repositories.WinnerRepository
		eventRepo  repositories.EventRepository
	)
	if cfg.MongoDB.URI != "" {
		mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		winners := mongorepo.NewWinnerRepository(db)
		if err := winners.EnsureIndexes(ctx); err != nil {
			slog.Warn("Failed to create winner indexes", "error", err)
		}
		eventLog := mongorepo.NewEventRepository(db)
		if err := eventLog.EnsureIndexes(ctx); err != nil {
			slog.Warn("Failed to create event indexes", "error", err)
		}
		winnerRepo, eventRepo = winners, eventLog
	} else {
		slog.Info("MongoDB URI not set, keeping the winner archive and event log in memory")
		winnerRepo, eventRepo = memory.NewWinnerRepository(), memory.NewEventRepository()
	}

	// Metrics
	var collector metrics.Collector = metrics.NewNop()
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus(prometheus.NewRegistry(), cfg.Metrics.Namespace)
		collector = prom
		metricsHandler = prom.Handler()
	}

	// Draw engine
	source := rng.NewSource(rng.WithFallbackHook(func() {
		slog.Warn("Strong random source unavailable, using LCG fallback")
		collector.RecordRandomFallback()
	}))
	engine := draw.NewEngine(
		rng.NewSampler(source),
		draw.WithDriftHook(func(awardID string, drawn int) {
			collector.RecordScheduleDrift(awardID)
		}),
	)

	hub := events.NewHub(cfg.Server.AllowedHosts)
	go hub.Run(ctx)

	// Initialize Services
	eventService := services.NewEventService(eventRepo, collector, engine.BatchID)
	publisher := events.Publishers{hub, eventService}
	drawService := services.NewDrawService(engine, winnerRepo, collector, publisher)
	poolService := services.NewPoolService(engine, cfg.Pool, collector, publisher)

	if err := drawService.RegisterAwards(ctx, cfg.ScheduledAwards()); err != nil {
		slog.Error("Failed to register awards", "error", err)
		os.Exit(1)
	}
	if _, err := poolService.LoadDefaultPool(ctx); err != nil {
		slog.Error("Failed to load default pool", "error", err)
		os.Exit(1)
	}

	tokens, err := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	if err != nil {
		slog.Error("Failed to create token service", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(cfg.Operator, tokens)

	// Initialize Handlers
	router := routes.SetupRouter(cfg, routes.Dependencies{
		DrawHandler:  handlers.NewDrawHandler(drawService),
		PoolHandler:  handlers.NewPoolHandler(poolService),
		AuthHandler:  handlers.NewAuthHandler(authService),
		EventHandler: handlers.NewEventHandler(eventService),
		Tokens:       tokens,
		Events:       http.HandlerFunc(hub.ServeWS),
		Metrics:      metricsHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

// setupLogger installs a JSON slog handler at the configured level
func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if lvl > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
