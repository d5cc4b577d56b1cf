package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders and their items.
// Reads return (nil, nil) when the order does not exist.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)

	// WithinTransaction runs fn against a repository bound to a single transaction.
	// Returning an error from fn rolls back every write fn made.
	WithinTransaction(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository exposes the writes that must happen inside a transaction.
type TxRepository interface {
	// InsertOrder stores the order row and assigns its ID.
	InsertOrder(ctx context.Context, order *domain.Order) error
	// InsertItems stores items for orderID and returns them with IDs assigned.
	InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error)
	// GetForUpdate loads and locks an order row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
	DeleteItems(ctx context.Context, orderID int64) (int64, error)
	DeleteOrder(ctx context.Context, orderID int64) (int64, error)
}
