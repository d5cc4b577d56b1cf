package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/go-order-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

// Order is the transport shape of an order.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	Items       []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateOrder is the request body of order creation.
type CreateOrder struct {
	UserID int64             `json:"userId"`
	Items  []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// UpdateStatus is the request body of a status change.
type UpdateStatus struct {
	Status string `json:"status" binding:"required"`
}

// OrderTotal is the response of a live total calculation.
type OrderTotal struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

// ToItemInputs converts requested lines into service inputs.
func ToItemInputs(items []CreateOrderItem) []ordersports.ItemInput {
	out := make([]ordersports.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, ordersports.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return out
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		PaidAt:      order.PaidAt,
	}
	if len(order.Items) > 0 {
		out.Items = FromDomainItems(order.Items)
	}
	return out
}

func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

func FromDomainItems(items []ordersdomain.OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return out
}
