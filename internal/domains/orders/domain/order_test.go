package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_ComputesTotalSnapshot(t *testing.T) {
	now := time.Now()
	order, err := NewOrder(7, []OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: 2, Quantity: 3, UnitPrice: decimal.NewFromInt(5)},
	}, now)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(35).Equal(order.TotalAmount), "total was %s", order.TotalAmount)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, now, order.CreatedAt)
	require.Equal(t, now, order.UpdatedAt)
	require.Len(t, order.Items, 2)
}

func TestNewOrder_RejectsInvalidInput(t *testing.T) {
	price := decimal.NewFromInt(1)
	cases := []struct {
		name   string
		userID int64
		items  []OrderItem
		want   error
	}{
		{"missing user", 0, []OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: price}}, ErrInvalidUserID},
		{"no items", 1, nil, ErrNoItems},
		{"zero quantity", 1, []OrderItem{{ProductID: 1, Quantity: 0, UnitPrice: price}}, ErrInvalidQuantity},
		{"negative price", 1, []OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, ErrNegativePrice},
		{"missing product", 1, []OrderItem{{Quantity: 1, UnitPrice: price}}, ErrInvalidProductID},
		{"sub-cent price", 1, []OrderItem{{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.005")}}, ErrInvalidPriceScale},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.userID, tc.items, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewOrder_ZeroPriceAllowed(t *testing.T) {
	order, err := NewOrder(1, []OrderItem{{ProductID: 1, Quantity: 4, UnitPrice: decimal.Zero}}, time.Now())
	require.NoError(t, err)
	require.True(t, order.TotalAmount.IsZero())
}

func TestNewOrder_AcceptsTrailingZeroScale(t *testing.T) {
	order, err := NewOrder(1, []OrderItem{{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.500")}}, time.Now())
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("1.5").Equal(order.TotalAmount))
	require.True(t, order.TotalAmount.Equal(order.TotalAmount.Round(PriceScale)))
}

func TestTransitionTo_FollowsTable(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusFulfilled, true},
		{StatusPaid, StatusFulfilled, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusPaid, false},
		{StatusFulfilled, StatusPaid, false},
		{StatusFulfilled, StatusCancelled, false},
	}
	for _, tc := range cases {
		order := &Order{Status: tc.from}
		err := order.TransitionTo(tc.to, time.Now())
		if tc.allowed {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr, "%s -> %s", tc.from, tc.to)
		require.ErrorIs(t, err, ErrInvalidTransition)
		require.Equal(t, tc.from, transitionErr.From)
		require.Equal(t, tc.to, transitionErr.To)
		require.Equal(t, tc.from, order.Status, "rejected transition must not mutate status")
	}
}

func TestTransitionTo_PaidKeepsUpdatedAtMonotonic(t *testing.T) {
	updated := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	order := &Order{Status: StatusPending, UpdatedAt: updated}

	require.NoError(t, order.TransitionTo(StatusPaid, updated.Add(-time.Hour)))
	require.Equal(t, StatusPaid, order.Status)
	require.False(t, order.UpdatedAt.Before(updated))
	require.NotNil(t, order.PaidAt)
	require.Equal(t, order.UpdatedAt, *order.PaidAt)
}

func TestTransitionTo_UnknownStatus(t *testing.T) {
	order := &Order{Status: StatusPending}
	require.ErrorIs(t, order.TransitionTo(Status("shipped"), time.Now()), ErrInvalidStatus)
}
