package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/sjperalta/sitetrack-api/docs" // Swagger docs
	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/handlers"
	"github.com/sjperalta/sitetrack-api/internal/metrics"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/internal/services"
	"github.com/sjperalta/sitetrack-api/internal/storage"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// @title SiteTrack API
// @version 1.0
// @description Construction site tracker backed by a shared workbook

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Open the workbook
	store, err := workbook.New(cfg.DataFile, cfg.LockFile, cfg.LockTimeout, workbook.WithMetrics(m))
	if err != nil {
		logger.Error("Failed to open workbook", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureInitialized(context.Background()); err != nil {
		logger.Error("Failed to initialize workbook", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	logger.Info("Workbook ready", "path", store.Path(), "lock_timeout", cfg.LockTimeout)

	// Initialize receipt storage
	receipts, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized receipt storage", "path", cfg.UploadDir)

	// Initialize repositories, services and handlers
	repos := repository.NewRepositories(store)
	svcs := services.NewServices(repos, store, receipts, cfg, m)
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := handlers.SetupRouter(h, cfg, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// In-flight writes finish or time out on the lock within this window
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LockTimeout+20*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}
