package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// QueryResult holds the rows of a raw query.
type QueryResult struct {
	Rows     []map[string]any
	RowCount int64
}

// Query runs a raw statement on the pool.
func (p *Pool) Query(ctx context.Context, statement string, params ...any) (QueryResult, error) {
	if err := p.ensure(); err != nil {
		return QueryResult{}, err
	}
	return Query(ctx, p.db, statement, params...)
}

// Exec runs a raw statement on the pool and returns the affected row count.
func (p *Pool) Exec(ctx context.Context, statement string, params ...any) (int64, error) {
	if err := p.ensure(); err != nil {
		return 0, err
	}
	return Exec(ctx, p.db, statement, params...)
}

// Query runs statement on db, which may be the pool handle or a transaction.
func Query(ctx context.Context, db *gorm.DB, statement string, params ...any) (QueryResult, error) {
	rows := make([]map[string]any, 0)
	result := db.WithContext(ctx).Raw(statement, params...).Scan(&rows)
	if result.Error != nil {
		return QueryResult{}, result.Error
	}
	return QueryResult{Rows: rows, RowCount: int64(len(rows))}, nil
}

func Exec(ctx context.Context, db *gorm.DB, statement string, params ...any) (int64, error) {
	result := db.WithContext(ctx).Exec(statement, params...)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindOption narrows a FindAll query.
type FindOption func(*gorm.DB) *gorm.DB

func Where(query string, args ...any) FindOption {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

func OrderBy(order string) FindOption {
	return func(db *gorm.DB) *gorm.DB { return db.Order(order) }
}

// FindByID loads the row with the given primary key, or nil when there is none.
func FindByID[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var out T
	if err := db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// FindByIDs loads every row whose primary key is in ids.
func FindByIDs[T any](ctx context.Context, db *gorm.DB, ids []int64) ([]T, error) {
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := db.WithContext(ctx).Where("id = ANY(?)", pq.Array(ids)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func FindAll[T any](ctx context.Context, db *gorm.DB, opts ...FindOption) ([]T, error) {
	query := db.WithContext(ctx)
	for _, opt := range opts {
		query = opt(query)
	}
	out := make([]T, 0)
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Insert creates row and back-fills generated columns such as the primary key.
func Insert[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return db.WithContext(ctx).Create(row).Error
}

// Update sets columns on the row with the given primary key and returns the affected count.
func Update[T any](ctx context.Context, db *gorm.DB, id int64, columns map[string]any) (int64, error) {
	result := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(columns)
	return result.RowsAffected, result.Error
}

func Delete[T any](ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return result.RowsAffected, result.Error
}
