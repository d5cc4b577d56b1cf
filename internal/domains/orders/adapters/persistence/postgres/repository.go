package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-order-service/internal/domains/orders/domain"
	"github.com/Apurer/go-order-service/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and order items in PostgreSQL using GORM.
type Repository struct {
	pool *platformpostgres.Pool
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages pool lifecycle.
func NewRepository(pool *platformpostgres.Pool) *Repository {
	return &Repository{pool: pool}
}

type orderRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	UserID      int64           `gorm:"column:user_id"`
	Status      string          `gorm:"column:status"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
	PaidAt      *time.Time      `gorm:"column:paid_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// GetByID fetches an order together with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	record, err := platformpostgres.FindByID[orderRecord](ctx, db, id)
	if err != nil || record == nil {
		return nil, err
	}
	order := record.toDomain()
	items, err := listItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListByUser returns the user's orders, most recent first. Items are not loaded.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	records, err := platformpostgres.FindAll[orderRecord](ctx, db,
		platformpostgres.Where("user_id = ?", userID),
		platformpostgres.OrderBy("created_at DESC, id DESC"),
	)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	return listItems(ctx, db, orderID)
}

// WithinTransaction runs fn with every write bound to one transaction on one connection.
func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx ports.TxRepository) error) error {
	if _, err := r.conn(); err != nil {
		return err
	}
	return r.pool.RunInTransaction(ctx, func(tx *gorm.DB) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *Repository) conn() (*gorm.DB, error) {
	if r == nil || r.pool.DB() == nil {
		return nil, errors.New("postgres order repository not configured")
	}
	return r.pool.DB(), nil
}

type txRepository struct {
	tx *gorm.DB
}

func (t *txRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	record := toRecord(order)
	if err := platformpostgres.Insert(ctx, t.tx, &record); err != nil {
		return err
	}
	order.ID = record.ID
	return nil
}

func (t *txRepository) InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) ([]domain.OrderItem, error) {
	saved := make([]domain.OrderItem, 0, len(items))
	// one statement per item so a failing row names itself in the error
	for _, item := range items {
		record := orderItemRecord{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if err := platformpostgres.Insert(ctx, t.tx, &record); err != nil {
			return nil, err
		}
		saved = append(saved, record.toDomain())
	}
	return saved, nil
}

func (t *txRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	record, err := platformpostgres.FindByID[orderRecord](ctx, t.tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	if err != nil || record == nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *txRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	affected, err := platformpostgres.Update[orderRecord](ctx, t.tx, order.ID, map[string]any{
		"status":     string(order.Status),
		"updated_at": order.UpdatedAt,
		"paid_at":    order.PaidAt,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (t *txRepository) DeleteItems(ctx context.Context, orderID int64) (int64, error) {
	return platformpostgres.Exec(ctx, t.tx, "DELETE FROM order_items WHERE order_id = ?", orderID)
}

func (t *txRepository) DeleteOrder(ctx context.Context, orderID int64) (int64, error) {
	return platformpostgres.Delete[orderRecord](ctx, t.tx, orderID)
}

func listItems(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.OrderItem, error) {
	records, err := platformpostgres.FindAll[orderItemRecord](ctx, db,
		platformpostgres.Where("order_id = ?", orderID),
		platformpostgres.OrderBy("id"),
	)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toDomain())
	}
	return items, nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		PaidAt:      order.PaidAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		Status:      domain.Status(r.Status),
		TotalAmount: r.TotalAmount,
		PaidAt:      r.PaidAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r orderItemRecord) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
}
