package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
	"github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

// Service orchestrates order use cases.
type Service struct {
	repo     ports.Repository
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithNotifier sets the best-effort notification channel.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger used to report isolated notification failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: ports.NoopNotifier,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.notifier == nil {
		s.notifier = ports.NoopNotifier
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// CreateOrder stores the order and all its items atomically, then sends a confirmation.
// The confirmation runs after commit; its failure never fails the call.
func (s *Service) CreateOrder(ctx context.Context, userID int64, inputs []ports.ItemInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.OrderItem{ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: in.UnitPrice})
	}
	order, err := domain.NewOrder(userID, items, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	err = s.repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		saved, err := tx.InsertItems(ctx, order.ID, order.Items)
		if err != nil {
			return err
		}
		order.Items = saved
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.notifier.SendOrderConfirmation(ctx, order.ID, order.UserID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order confirmation not delivered",
			slog.Int64("order.id", order.ID), slog.Int64("user.id", order.UserID), slog.String("error", err.Error()))
	}
	return order, nil
}

// GetOrderByID returns the order with its items, or nil when it does not exist.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOrdersByUser lists a user's orders, most recent first.
func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateOrderStatus moves an order to status if the transition table allows it.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if status == domain.StatusCancelled {
		// cancellation deletes rows and has its own operation
		return nil, mapError(domain.ErrInvalidStatus)
	}
	var updated *domain.Order
	err := s.repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		order, err := s.lockForTransition(ctx, tx, id, status)
		if err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// MarkOrderPaid moves the order to paid and records the payment time.
func (s *Service) MarkOrderPaid(ctx context.Context, id int64) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, id, domain.StatusPaid)
}

// FulfillOrder moves the order to fulfilled.
func (s *Service) FulfillOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, id, domain.StatusFulfilled)
}

// CancelOrder permanently deletes the order and its items, then sends a cancellation
// notice to the order's owner. Notification failures are swallowed.
func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	var cancelled *domain.Order
	err := s.repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		order, err := s.lockForTransition(ctx, tx, id, domain.StatusCancelled)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteItems(ctx, id); err != nil {
			return err
		}
		if _, err := tx.DeleteOrder(ctx, id); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	if err := s.notifier.SendOrderCancellation(ctx, cancelled.ID, cancelled.UserID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order cancellation not delivered",
			slog.Int64("order.id", cancelled.ID), slog.Int64("user.id", cancelled.UserID), slog.String("error", err.Error()))
	}
	return nil
}

// GetOrderItems lists the items of an order.
func (s *Service) GetOrderItems(ctx context.Context, id int64) ([]domain.OrderItem, error) {
	return s.repo.ListItems(ctx, id)
}

// CalculateOrderTotal recomputes the total from the current item rows.
// The result is not reconciled with the stored TotalAmount snapshot.
func (s *Service) CalculateOrderTotal(ctx context.Context, id int64) (decimal.Decimal, error) {
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SumItems(items), nil
}

func (s *Service) lockForTransition(ctx context.Context, tx ports.TxRepository, id int64, status domain.Status) (*domain.Order, error) {
	order, err := tx.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ports.ErrNotFound
	}
	if err := order.TransitionTo(status, s.now().UTC()); err != nil {
		return nil, err
	}
	return order, nil
}

var _ ports.Service = (*Service)(nil)
