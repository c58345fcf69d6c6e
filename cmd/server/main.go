package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dandantas/hush/internal/config"
	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/handler"
	"github.com/dandantas/hush/internal/registry"
	"github.com/dandantas/hush/internal/scheduler"
	"github.com/dandantas/hush/internal/service"
	"github.com/dandantas/hush/internal/webhook"
	"github.com/dandantas/hush/internal/worker"
	"github.com/dandantas/hush/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Hush Downtime Service", "version", version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	targetRepo := database.NewTargetRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	downtimeRepo := database.NewDowntimeRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	lockRepo := database.NewLockRepository(db)

	// Initialize webhook dispatcher and notification service
	dispatcher := webhook.NewDispatcher(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
	notificationService := service.NewNotificationService(dispatcher, notificationRepo)

	// Initialize schedule registry and reconciliation pipeline
	reg := registry.New()
	reconciler := scheduler.NewReconciler(targetRepo, downtimeRepo, notificationService)
	pool := worker.NewPool(cfg.SchedulerWorkers, cfg.SchedulerQueueSize)
	sched := scheduler.NewScheduler(cfg, reg, reconciler, pool, lockRepo)
	janitor := scheduler.NewJanitor(cfg, downtimeRepo)

	// Initialize services
	targetService := service.NewTargetService(targetRepo, scheduleRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, targetRepo, downtimeRepo, reg, sched)
	downtimeService := service.NewDowntimeService(downtimeRepo, targetRepo, notificationService)

	// Load enabled schedules before the first tick
	if err := scheduleService.LoadAll(ctx); err != nil {
		slog.Error("Failed to load schedules", "error", err)
		os.Exit(1)
	}

	// Start background workers
	sched.Start(ctx)
	if err := janitor.Start(); err != nil {
		slog.Error("Failed to start janitor", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	targetHandler := handler.NewTargetHandler(targetService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	downtimeHandler := handler.NewDowntimeHandler(downtimeService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler(db, reg, notificationService, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		targetHandler,
		scheduleHandler,
		downtimeHandler,
		notificationHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new work arrives
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Stop scheduler (drains queued reconciliations)
	slog.Info("Stopping scheduler...")
	sched.Stop(shutdownCtx)

	// Stop janitor
	janitor.Stop()

	// Flush in-flight webhook deliveries
	notificationService.Stop()

	slog.Info("Hush Downtime Service stopped")
}
