package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
	"github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

func newOrder(t *testing.T, userID int64, created time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, []domain.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(3)},
	}, created)
	require.NoError(t, err)
	return order
}

func insert(t *testing.T, repo *Repository, order *domain.Order) {
	t.Helper()
	err := repo.WithinTransaction(context.Background(), func(tx ports.TxRepository) error {
		if err := tx.InsertOrder(context.Background(), order); err != nil {
			return err
		}
		_, err := tx.InsertItems(context.Background(), order.ID, order.Items)
		return err
	})
	require.NoError(t, err)
}

func TestWithinTransaction_DiscardsWritesOnError(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		order := newOrder(t, 1, time.Now())
		require.NoError(t, tx.InsertOrder(ctx, order))
		_, err := tx.InsertItems(ctx, order.ID, order.Items)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, got)
	items, err := repo.ListItems(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestListByUser_MostRecentFirst(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := newOrder(t, 5, base)
	newer := newOrder(t, 5, base.Add(time.Minute))
	other := newOrder(t, 6, base)
	insert(t, repo, older)
	insert(t, repo, newer)
	insert(t, repo, other)

	list, err := repo.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)
}

func TestDeleteOrder_RequiresItemsRemovedFirst(t *testing.T) {
	repo := NewRepository()
	order := newOrder(t, 1, time.Now())
	insert(t, repo, order)
	ctx := context.Background()

	err := repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		_, err := tx.DeleteOrder(ctx, order.ID)
		return err
	})
	require.ErrorIs(t, err, ErrItemsReferenceOrder)

	err = repo.WithinTransaction(ctx, func(tx ports.TxRepository) error {
		if _, err := tx.DeleteItems(ctx, order.ID); err != nil {
			return err
		}
		n, err := tx.DeleteOrder(ctx, order.ID)
		require.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
