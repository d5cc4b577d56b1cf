package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Apurer/go-order-service/internal/domains/notifications/adapters/delivery"
	notificationsapp "github.com/Apurer/go-order-service/internal/domains/notifications/application"
	notificationsports "github.com/Apurer/go-order-service/internal/domains/notifications/ports"
	usermemory "github.com/Apurer/go-order-service/internal/domains/users/adapters/memory"
	userpostgres "github.com/Apurer/go-order-service/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/go-order-service/internal/domains/users/ports"
	platformobservability "github.com/Apurer/go-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
)

// BuildDirectory returns the users directory backed by pool, or an empty in-memory one
// when no pool is available.
func BuildDirectory(pool *platformpostgres.Pool) userports.Directory {
	if pool == nil {
		return usermemory.NewDirectory()
	}
	return userpostgres.NewDirectory(pool.DB())
}

// BuildSender selects the delivery channel named by cfg.NotifySender.
// The returned cleanup is always safe to call.
func BuildSender(ctx context.Context, cfg Config, logger *slog.Logger) (notificationsports.Sender, func(), error) {
	noop := func() {}
	switch cfg.NotifySender {
	case SenderSMTP:
		sender, err := delivery.NewSMTPSender(cfg.SMTP)
		if err != nil {
			return nil, noop, fmt.Errorf("configure smtp sender: %w", err)
		}
		logger.Info("notification sender configured", slog.String("sender", SenderSMTP), slog.String("host", cfg.SMTP.Host))
		return sender, noop, nil
	case SenderRabbitMQ:
		sender, closeFn, err := delivery.DialRabbitMQ(ctx, cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("notification sender configured", slog.String("sender", SenderRabbitMQ), slog.String("queue", cfg.RabbitMQQueue))
		return sender, func() {
			if err := closeFn(); err != nil {
				logger.Warn("failed to close rabbitmq connection", slog.String("error", err.Error()))
			}
		}, nil
	default:
		logger.Info("notification sender configured", slog.String("sender", SenderLog))
		return delivery.NewLogSender(logger), noop, nil
	}
}

// BuildNotificationService wires the dispatcher on top of the directory and the configured sender.
func BuildNotificationService(ctx context.Context, cfg Config, directory userports.Directory, logger *slog.Logger) (*notificationsapp.Service, func(), error) {
	sender, cleanup, err := BuildSender(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	service := notificationsapp.NewService(
		directory,
		sender,
		notificationsapp.WithLogger(logger),
		notificationsapp.WithBulkConcurrency(cfg.BulkConcurrency),
	)
	return service, cleanup, nil
}

// DialTemporal connects a Temporal client with the OpenTelemetry tracing interceptor installed.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
