package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/sensor-dashboard/internal/api/http"
	"github.com/i474232898/sensor-dashboard/internal/config"
	"github.com/i474232898/sensor-dashboard/internal/logging"
	"github.com/i474232898/sensor-dashboard/internal/metrics"
	"github.com/i474232898/sensor-dashboard/internal/scheduler"
	"github.com/i474232898/sensor-dashboard/internal/sensor"
	"github.com/i474232898/sensor-dashboard/internal/sensor/remote"
	"github.com/i474232898/sensor-dashboard/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync()

	// Remote CSV imports stay off unless enabled. Private destinations are
	// refused at dial time unless explicitly allowed.
	var fetcher sensor.Fetcher
	if cfg.RemoteImports {
		transport := remote.PublicOnlyTransport()
		if cfg.RemoteAllowPrivate {
			transport = http.DefaultTransport.(*http.Transport).Clone()
		}
		httpClient := &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		}
		fetcher = remote.NewFetcher(httpClient, remote.BackoffConfig{
			MaxRetries:      cfg.FetchMaxRetries,
			InitialInterval: cfg.FetchInitialBackoff,
			MaxInterval:     cfg.FetchMaxBackoff,
		}, cfg.RemoteMaxBytes)
	}
	lg.Info("remote imports",
		zap.Bool("enabled", cfg.RemoteImports),
		zap.Bool("allow_private", cfg.RemoteAllowPrivate))

	// In-memory session store with configured retention.
	memStore := store.NewMemoryStore(cfg.SessionMaxCount, cfg.SessionMaxAge)
	m := metrics.New()

	// Core service owning the session workflow.
	service := sensor.NewService(memStore, fetcher, lg, m)

	// Scheduler that periodically evicts idle sessions.
	sched := scheduler.New(cfg.CleanupInterval, service, lg)
	if err := sched.Start(); err != nil {
		lg.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "sensor-dashboard",
		DisableStartupMessage: true,
		BodyLimit:             cfg.MaxUploadBytes,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler(lg),
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "sensor-dashboard",
		})
	})
	app.Get("/metrics", m.Handler())

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		lg.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("error during shutdown", zap.Error(err))
	}
}
