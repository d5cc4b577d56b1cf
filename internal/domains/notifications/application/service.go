package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	"github.com/Apurer/go-order-service/internal/domains/notifications/ports"
)

// DefaultBulkConcurrency bounds in-flight deliveries of a bulk send.
const DefaultBulkConcurrency = 16

// Service dispatches notifications through a Sender.
type Service struct {
	directory       ports.Directory
	sender          ports.Sender
	logger          *slog.Logger
	bulkConcurrency int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithBulkConcurrency caps concurrent deliveries in SendBulkNotifications. Values below one are ignored.
func WithBulkConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bulkConcurrency = n
		}
	}
}

func NewService(directory ports.Directory, sender ports.Sender, opts ...Option) *Service {
	s := &Service{
		directory:       directory,
		sender:          sender,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		bulkConcurrency: DefaultBulkConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// SendNotification delivers one message. Sender failures come back as *domain.DeliveryError.
func (s *Service) SendNotification(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return &domain.DeliveryError{Err: domain.ErrEmptyRecipient}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "sending notification",
		slog.String("notification.recipient", recipient), slog.String("notification.subject", subject))
	if err := s.sender.Send(ctx, domain.Message{To: recipient, Subject: subject, Body: body}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "notification delivery failed",
			slog.String("notification.recipient", recipient), slog.String("error", err.Error()))
		return &domain.DeliveryError{Recipient: recipient, Err: err}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "notification sent", slog.String("notification.recipient", recipient))
	return nil
}

func (s *Service) SendOrderConfirmation(ctx context.Context, orderID, userID int64) error {
	return s.sendToUser(ctx, domain.KindOrderConfirmation, userID, orderData{OrderID: orderID})
}

func (s *Service) SendOrderCancellation(ctx context.Context, orderID, userID int64) error {
	return s.sendToUser(ctx, domain.KindOrderCancellation, userID, orderData{OrderID: orderID})
}

// SendPasswordReset mails a reset token to address. Failures propagate to the caller.
func (s *Service) SendPasswordReset(ctx context.Context, address, token string) error {
	subject, body, err := render(domain.KindPasswordReset, resetData{Token: token})
	if err != nil {
		return err
	}
	if err := s.SendNotification(ctx, address, subject, body); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}

// SendWelcomeEmail greets a new user. Failures are logged and never returned.
func (s *Service) SendWelcomeEmail(ctx context.Context, userID int64) {
	if err := s.sendToUser(ctx, domain.KindWelcome, userID, struct{}{}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "welcome email not delivered",
			slog.Int64("user.id", userID), slog.String("error", err.Error()))
	}
}

// SendBulkNotifications sends the same message to every user. Each recipient is attempted
// exactly once and independently; the result counts every outcome.
func (s *Service) SendBulkNotifications(ctx context.Context, userIDs []int64, subject, body string) domain.BulkResult {
	addresses := s.prefetchAddresses(ctx, userIDs)

	type failure struct {
		index int
		domain.BulkFailure
	}
	var (
		mu        sync.Mutex
		succeeded int
		failures  []failure
	)
	g := new(errgroup.Group)
	g.SetLimit(s.bulkConcurrency)
	for i, userID := range userIDs {
		g.Go(func() error {
			err := s.sendBulkOne(ctx, userID, addresses, subject, body)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, failure{index: i, BulkFailure: domain.BulkFailure{UserID: userID, Err: err}})
				return nil
			}
			succeeded++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(a, b int) bool { return failures[a].index < failures[b].index })
	result := domain.BulkResult{Successful: succeeded, Failed: len(failures)}
	for _, f := range failures {
		result.Failures = append(result.Failures, f.BulkFailure)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "bulk notification finished",
		slog.Int("bulk.successful", result.Successful), slog.Int("bulk.failed", result.Failed))
	return result
}

func (s *Service) sendBulkOne(ctx context.Context, userID int64, addresses map[int64]string, subject, body string) error {
	address, ok := addresses[userID]
	if !ok {
		resolved, err := s.directory.ResolveAddress(ctx, userID)
		if err != nil {
			return &domain.NotificationError{Kind: domain.KindBulk, UserID: userID, Err: err}
		}
		address = resolved
	}
	if err := s.SendNotification(ctx, address, subject, body); err != nil {
		return &domain.NotificationError{Kind: domain.KindBulk, UserID: userID, Err: err}
	}
	return nil
}

// prefetchAddresses resolves addresses in one lookup when the directory supports it.
// Misses and lookup failures fall back to per-recipient resolution.
func (s *Service) prefetchAddresses(ctx context.Context, userIDs []int64) map[int64]string {
	batch, ok := s.directory.(ports.BatchDirectory)
	if !ok || len(userIDs) == 0 {
		return nil
	}
	addresses, err := batch.ResolveAddresses(ctx, userIDs)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "batch address lookup failed", slog.String("error", err.Error()))
		return nil
	}
	return addresses
}

func (s *Service) sendToUser(ctx context.Context, kind domain.Kind, userID int64, data any) error {
	address, err := s.directory.ResolveAddress(ctx, userID)
	if err != nil {
		return &domain.NotificationError{Kind: kind, UserID: userID, Err: err}
	}
	subject, body, err := render(kind, data)
	if err != nil {
		return &domain.NotificationError{Kind: kind, UserID: userID, Err: err}
	}
	if err := s.SendNotification(ctx, address, subject, body); err != nil {
		return &domain.NotificationError{Kind: kind, UserID: userID, Err: err}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
