package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
)

// ItemInput is one requested line of a new order.
type ItemInput struct {
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, userID int64, items []ItemInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	MarkOrderPaid(ctx context.Context, id int64) (*domain.Order, error)
	FulfillOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	GetOrderItems(ctx context.Context, id int64) ([]domain.OrderItem, error)
	CalculateOrderTotal(ctx context.Context, id int64) (decimal.Decimal, error)
}
