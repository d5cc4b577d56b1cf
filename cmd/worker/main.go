package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-service/internal/app/api"
	platformobservability "github.com/Apurer/go-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
	notificationworkflows "github.com/Apurer/go-order-service/internal/platform/temporal/workflows/notifications"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("order worker exited: %v", err)
	}
}

// run owns every resource of the worker so deferred cleanup happens on all exit paths.
func run(ctx context.Context) error {
	const serviceName = "order-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	pool, closePool := platformpostgres.ConnectWithFallback(ctx, cfg.PostgresDSN, cfg.Pool, logger)
	defer closePool()
	notificationService, closeSender, err := api.BuildNotificationService(ctx, cfg, api.BuildDirectory(pool), logger)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}
	defer closeSender()
	orderEventActivities := notificationactivities.NewActivities(notificationService)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, notificationworkflows.OrderEventTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(notificationworkflows.OrderEventWorkflow, workflow.RegisterOptions{Name: notificationworkflows.OrderEventWorkflowName})
	w.RegisterActivityWithOptions(orderEventActivities.SendOrderEvent, activity.RegisterOptions{Name: notificationactivities.SendOrderEventActivityName})

	logger.Info("worker listening", slog.String("taskQueue", notificationworkflows.OrderEventTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
