package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Tables are migrated parent first.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	UserID      int64           `gorm:"column:user_id;not null;index:idx_orders_user_created,priority:1"`
	Status      string          `gorm:"column:status;type:varchar(32);not null;index;check:chk_orders_status,status IN ('pending','paid','fulfilled')"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null;check:chk_orders_total,total_amount >= 0"`
	PaidAt      *time.Time      `gorm:"column:paid_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;index:idx_orders_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter. Deleting an order with items fails.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int32           `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;check:chk_order_items_unit_price,unit_price >= 0"`
	Order     orderRecord     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// User schema mirrors the users Postgres directory.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"column:username;uniqueIndex"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }
