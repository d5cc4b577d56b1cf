package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFulfilled Status = "fulfilled"
	// StatusCancelled is never persisted; cancelling an order deletes it.
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidUserID     = errors.New("user id must be greater than zero")
	ErrNoItems           = errors.New("order requires at least one item")
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativePrice     = errors.New("unit price must not be negative")
	ErrInvalidPriceScale = errors.New("unit price must have at most 2 decimal places")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
)

// TransitionError reports a rejected source to target status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// transitions lists every allowed (source, target) pair.
var transitions = map[Status]map[Status]bool{
	StatusPending: {StatusPaid: true, StatusFulfilled: true, StatusCancelled: true},
	StatusPaid:    {StatusFulfilled: true, StatusCancelled: true},
}

// CanTransition reports whether the transition table allows from -> to.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// Order models the purchase order aggregate.
type Order struct {
	ID          int64
	UserID      int64
	Status      Status
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	Items       []OrderItem
}

// OrderItem is one line of an order. Items are immutable after creation.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// PriceScale is the number of decimal places money columns store.
const PriceScale = 2

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Validate enforces item invariants.
func (i OrderItem) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if !i.UnitPrice.Equal(i.UnitPrice.Round(PriceScale)) {
		return ErrInvalidPriceScale
	}
	return nil
}

// SumItems totals the subtotals of items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// NewOrder builds a pending order with its total fixed from the supplied items.
func NewOrder(userID int64, items []OrderItem, now time.Time) (*Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	lines := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		item.ID = 0
		item.OrderID = 0
		lines = append(lines, item)
	}
	return &Order{
		UserID:      userID,
		Status:      StatusPending,
		TotalAmount: SumItems(lines),
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       lines,
	}, nil
}

// TransitionTo validates and applies a status change. UpdatedAt never moves backwards.
func (o *Order) TransitionTo(to Status, now time.Time) error {
	if !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, to) {
		return &TransitionError{From: o.Status, To: to}
	}
	if to == StatusCancelled {
		return nil
	}
	if now.Before(o.UpdatedAt) {
		now = o.UpdatedAt
	}
	o.Status = to
	o.UpdatedAt = now
	if to == StatusPaid {
		paidAt := now
		o.PaidAt = &paidAt
	}
	return nil
}

// IsValidStatus reports whether status is a known state.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}
