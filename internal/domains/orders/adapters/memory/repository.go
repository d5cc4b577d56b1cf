package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
	"github.com/Apurer/go-order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
// Transactions run serially and work on a copy that replaces the live state on commit.
type Repository struct {
	mu    sync.RWMutex
	state state
}

type state struct {
	orders     map[int64]domain.Order
	items      map[int64][]domain.OrderItem
	nextOrder  int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{state: state{
		orders: map[int64]domain.Order{},
		items:  map[int64][]domain.OrderItem{},
	}}
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.state.orders[id]
	if !ok {
		return nil, nil
	}
	order.Items = cloneItems(r.state.items[id])
	return &order, nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, order := range r.state.orders {
		if order.UserID != userID {
			continue
		}
		clone := order
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *Repository) ListItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.state.items[orderID]), nil
}

func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx ports.TxRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &txRepository{state: r.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	r.state = tx.state
	return nil
}

type txRepository struct {
	state state
}

func (t *txRepository) InsertOrder(_ context.Context, order *domain.Order) error {
	t.state.nextOrder++
	order.ID = t.state.nextOrder
	row := *order
	row.Items = nil
	t.state.orders[row.ID] = row
	return nil
}

func (t *txRepository) InsertItems(_ context.Context, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if _, ok := t.state.orders[orderID]; !ok {
		return nil, ports.ErrNotFound
	}
	saved := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		t.state.nextItemID++
		item.ID = t.state.nextItemID
		item.OrderID = orderID
		saved = append(saved, item)
	}
	t.state.items[orderID] = append(t.state.items[orderID], saved...)
	return cloneItems(saved), nil
}

func (t *txRepository) GetForUpdate(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := t.state.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (t *txRepository) UpdateStatus(_ context.Context, order *domain.Order) error {
	row, ok := t.state.orders[order.ID]
	if !ok {
		return ports.ErrNotFound
	}
	row.Status = order.Status
	row.UpdatedAt = order.UpdatedAt
	row.PaidAt = order.PaidAt
	t.state.orders[order.ID] = row
	return nil
}

func (t *txRepository) DeleteItems(_ context.Context, orderID int64) (int64, error) {
	n := int64(len(t.state.items[orderID]))
	delete(t.state.items, orderID)
	return n, nil
}

func (t *txRepository) DeleteOrder(_ context.Context, orderID int64) (int64, error) {
	if _, ok := t.state.orders[orderID]; !ok {
		return 0, nil
	}
	if len(t.state.items[orderID]) > 0 {
		return 0, ErrItemsReferenceOrder
	}
	delete(t.state.orders, orderID)
	return 1, nil
}

func (s state) clone() state {
	out := state{
		orders:     make(map[int64]domain.Order, len(s.orders)),
		items:      make(map[int64][]domain.OrderItem, len(s.items)),
		nextOrder:  s.nextOrder,
		nextItemID: s.nextItemID,
	}
	for id, order := range s.orders {
		out.orders[id] = order
	}
	for id, items := range s.items {
		out.items[id] = cloneItems(items)
	}
	return out
}

func cloneItems(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	return out
}
