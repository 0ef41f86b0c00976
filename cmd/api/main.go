package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/brcarts/playatracker/internal/adapters/homeassistant"
	"github.com/brcarts/playatracker/internal/adapters/http"
	natsadapter "github.com/brcarts/playatracker/internal/adapters/nats"
	"github.com/brcarts/playatracker/internal/adapters/postgres"
	"github.com/brcarts/playatracker/internal/adapters/valkey"
	"github.com/brcarts/playatracker/internal/core/ports"
	"github.com/brcarts/playatracker/internal/core/usecases"
	"github.com/brcarts/playatracker/internal/pkg/config"
	"github.com/brcarts/playatracker/internal/pkg/logging"
	"github.com/brcarts/playatracker/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("playatracker-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, running without cache", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	landmarkRepo := postgres.NewLandmarkRepo(db)
	boundaryRepo := postgres.NewBoundaryRepo(db)

	// Proximity strategy: probe once, decide once.
	var query ports.ProximityQuery
	if db.HasPostGIS(ctx) {
		slog.Info("postgis present, using indexed proximity")
		query = postgres.NewIndexedProximity(db)
	} else {
		slog.Info("postgis absent, using geometric scan proximity")
		query = postgres.NewScanProximity(db)
	}

	// Device tracker
	tracker := homeassistant.New(
		cfg.HomeAssistant.BaseURL,
		cfg.HomeAssistant.Token,
		cfg.HomeAssistant.TrackerEntity,
		time.Duration(cfg.HomeAssistant.TimeoutSeconds)*time.Second,
	)

	// Use cases
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	var pubSvc ports.EventPublisher
	if publisher != nil {
		pubSvc = publisher
	}

	proximitySvc := usecases.NewProximityService(query, boundaryRepo, cacheSvc, usecases.DefaultRadii())
	landmarkSvc := usecases.NewLandmarkService(landmarkRepo, cacheSvc)
	locationSvc := usecases.NewLocationService(
		landmarkRepo,
		tracker,
		proximitySvc,
		cacheSvc,
		pubSvc,
		cfg.Grid.Grid(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.Location.SimulationEnabled,
		cfg.Location.CacheTTLSeconds,
	)

	deps := &http.Dependencies{
		Location:  locationSvc,
		Proximity: proximitySvc,
		Landmarks: landmarkSvc,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "PlayaTracker API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
