package delivery

import (
	"context"
	"io"
	"log/slog"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	"github.com/Apurer/go-order-service/internal/domains/notifications/ports"
)

var _ ports.Sender = (*LogSender)(nil)

// LogSender writes messages to the log instead of delivering them. Used in development.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "notification logged",
		slog.String("notification.recipient", msg.To),
		slog.String("notification.subject", msg.Subject),
		slog.Int("notification.body_bytes", len(msg.Body)),
	)
	return nil
}
