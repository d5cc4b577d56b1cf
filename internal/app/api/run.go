package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	ordersmemory "github.com/Apurer/go-order-service/internal/domains/orders/adapters/memory"
	ordersnotifier "github.com/Apurer/go-order-service/internal/domains/orders/adapters/notifier"
	ordersobs "github.com/Apurer/go-order-service/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-order-service/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-order-service/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-service/internal/domains/orders/ports"
	"github.com/Apurer/go-order-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
	"github.com/Apurer/go-order-service/internal/server"
)

// Run boots the order HTTP API with observability, persistence and notifications wired.
func Run(ctx context.Context) error {
	const serviceName = "order-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
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
	if pool != nil {
		if err := migrations.Run(pool.DB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	notificationService, closeSender, err := BuildNotificationService(ctx, cfg, BuildDirectory(pool), logger)
	if err != nil {
		return err
	}
	defer closeSender()

	var notifier ordersports.Notifier = ordersnotifier.NewInlineNotifier(notificationService)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, dispatching order notifications inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		notifier = ordersnotifier.NewTemporalNotifier(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coreOrderService := ordersapp.NewService(
		buildOrderRepository(pool, logger),
		ordersapp.WithNotifier(notifier),
		ordersapp.WithLogger(logger),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	router := server.NewRouter(server.Handlers{
		OrderAPI:        server.NewOrderAPI(orderService),
		NotificationAPI: server.NewNotificationAPI(notificationService),
	}, otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("order API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(pool *platformpostgres.Pool, logger *slog.Logger) ordersports.Repository {
	if pool == nil {
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(pool)
}
