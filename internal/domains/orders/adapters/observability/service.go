package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/go-order-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-order-service/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, userID int64, items []ordersports.ItemInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("user.id", userID), attribute.Int("order.item_count", len(items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("user.id", userID), slog.Int("order.item_count", len(items)))
	result, err := s.inner.CreateOrder(ctx, userID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalAmount.String()))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.found", result != nil))
	return result, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrdersByUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	result, err := s.inner.GetOrdersByUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status ordersdomain.Status) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.UpdateOrderStatus", id, status, func(ctx context.Context) (*ordersdomain.Order, error) {
		return s.inner.UpdateOrderStatus(ctx, id, status)
	})
}

func (s *Service) MarkOrderPaid(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.MarkOrderPaid", id, ordersdomain.StatusPaid, func(ctx context.Context) (*ordersdomain.Order, error) {
		return s.inner.MarkOrderPaid(ctx, id)
	})
}

func (s *Service) FulfillOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.FulfillOrder", id, ordersdomain.StatusFulfilled, func(ctx context.Context) (*ordersdomain.Order, error) {
		return s.inner.FulfillOrder(ctx, id)
	})
}

func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", id))
	if err := s.inner.CancelOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", id))
	return nil
}

func (s *Service) GetOrderItems(ctx context.Context, id int64) ([]ordersdomain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderItems", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderItems(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list order items", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Int("order.item_count", len(result)))
	return result, nil
}

func (s *Service) CalculateOrderTotal(ctx context.Context, id int64) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CalculateOrderTotal", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.CalculateOrderTotal(ctx, id)
	if err != nil {
		return decimal.Zero, s.handleError(ctx, span, err, "failed to calculate order total", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.String("order.total", result.String()))
	return result, nil
}

func (s *Service) transition(ctx context.Context, spanName string, id int64, status ordersdomain.Status, call func(context.Context) (*ordersdomain.Order, error)) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "changing order status", slog.Int64("order.id", id), slog.String("order.status", string(status)))
	result, err := call(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status",
			slog.Int64("order.id", id), slog.String("order.status", string(status)))
	}
	s.metrics.recordStatusChanged(ctx, result.Status)
	s.logInfo(ctx, "order status changed", slog.Int64("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated   metric.Int64Counter
	statusChanged   metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	changed, _ := m.Int64Counter("orders.service.status_changed", metric.WithDescription("Number of order status transitions"))
	cancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	return serviceMetrics{ordersCreated: created, statusChanged: changed, ordersCancelled: cancelled}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status ordersdomain.Status) {
	if m.statusChanged != nil {
		m.statusChanged.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
