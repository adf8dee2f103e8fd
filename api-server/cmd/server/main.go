package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akbar-farajov/booking-system/api-server/internal/database"
	"github.com/akbar-farajov/booking-system/api-server/internal/handlers"
	"github.com/akbar-farajov/booking-system/api-server/internal/router"
	"github.com/akbar-farajov/booking-system/api-server/internal/service"
	"github.com/akbar-farajov/booking-system/api-server/internal/websocket"
	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/config"
	"github.com/akbar-farajov/booking-system/shared/persistence"
	"github.com/akbar-farajov/booking-system/shared/wizard"
	"go.temporal.io/sdk/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Get configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Session storage
	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}
	defer closeStorage()

	opts := []service.Option{
		service.WithDelays(wizard.Delays{Submit: cfg.SubmitDelay, Continue: cfg.ContinueDelay}),
		service.WithLogger(logger),
	}

	// Confirmation backend
	var confirmer wizard.Confirmer
	switch cfg.ConfirmBackend {
	case config.ConfirmTemporal:
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalHost,
			Namespace: cfg.TemporalNamespace,
		})
		if err != nil {
			log.Fatalf("Failed to create Temporal client: %v", err)
		}
		defer temporalClient.Close()
		log.Printf("Connected to Temporal server at %s", cfg.TemporalHost)
		confirmer = service.NewTemporalConfirmer(temporalClient, 0)

		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		opts = append(opts, service.WithBookingLookup(database.NewRepository(pool)))
	default:
		confirmer = wizard.NewSimulatedConfirmer(cfg.ConfirmDelay)
	}

	// Real-time updates
	hub := websocket.NewHub(logger.With("component", "websocket"))
	go hub.Run(ctx)
	opts = append(opts, service.WithBroadcaster(hub))

	// Initialize services
	sessionService := service.NewSessionService(catalog.Default(), storage, confirmer, opts...)

	// Initialize handlers
	h := handlers.NewHandler(sessionService, hub, logger)

	// Create router
	r := router.SetupRouter(h, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s (storage=%s, confirm=%s)", cfg.Port, cfg.StorageBackend, cfg.ConfirmBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (persistence.Storage, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageFile:
		fs, err := persistence.NewFileStorage(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	case config.StorageRedis:
		redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return persistence.NewRedisStorage(redisClient, persistence.DefaultRedisTTL), func() { redisClient.Close() }, nil
	default:
		return persistence.NewMemoryStorage(), func() {}, nil
	}
}
