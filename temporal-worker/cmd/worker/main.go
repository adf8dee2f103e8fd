package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/config"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/temporal-worker/internal/activities"
	"github.com/akbar-farajov/booking-system/temporal-worker/internal/repository"
	"github.com/akbar-farajov/booking-system/temporal-worker/internal/workflows"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func main() {
	ctx := context.Background()

	// Get configuration
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Connect to database
	log.Println("Connecting to database...")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	// Connect to Temporal
	log.Printf("Connecting to Temporal at %s...", cfg.TemporalHost)
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
		Logger:    sdklog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()
	log.Println("Connected to Temporal")

	w := worker.New(c, models.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflowWithOptions(workflows.TripConfirmationWorkflow, workflow.RegisterOptions{Name: models.WorkflowTripConfirmation})

	// Register activities
	acts := activities.NewActivities(catalog.Default(), repo)
	w.RegisterActivityWithOptions(acts.PriceBooking, activity.RegisterOptions{Name: activities.ActivityPriceBooking})
	w.RegisterActivityWithOptions(acts.RecordBooking, activity.RegisterOptions{Name: activities.ActivityRecordBooking})
	w.RegisterActivityWithOptions(acts.SendConfirmation, activity.RegisterOptions{Name: activities.ActivitySendConfirmation})

	log.Println("Starting Temporal worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
