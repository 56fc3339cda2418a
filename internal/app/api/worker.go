package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	platformobservability "github.com/Apurer/it-literature-shop/internal/platform/observability"
	orderactivities "github.com/Apurer/it-literature-shop/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/it-literature-shop/internal/platform/temporal/workflows/orders"
)

const workerServiceName = "it-literature-shop-worker"

// RunWorker serves the order placement workflow and its activity until interrupted.
func RunWorker(ctx context.Context) error {
	cfg, err := LoadWorkerConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, telemetryOptions(workerServiceName, cfg.TelemetryConfig))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer flushTelemetry(instruments, shutdown)
	logger := instruments.Logger

	db, closeDB, err := OpenDatabase(ctx, cfg.DatabaseConfig, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	activities := orderactivities.NewActivities(newOrderService(db, instruments))

	temporalClient, err := DialTemporal(cfg.TemporalConfig, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
