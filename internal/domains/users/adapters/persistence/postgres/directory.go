package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-order-service/internal/domains/users/domain"
	"github.com/Apurer/go-order-service/internal/domains/users/ports"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
)

var _ ports.Directory = (*Directory)(nil)

// Directory reads user addresses from PostgreSQL using GORM.
type Directory struct {
	db *gorm.DB
}

// NewDirectory wires a PostgreSQL-backed directory. Caller manages DB lifecycle.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"column:username"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

func (d *Directory) ResolveAddress(ctx context.Context, userID int64) (string, error) {
	if err := d.ensureDB(); err != nil {
		return "", err
	}
	record, err := platformpostgres.FindByID[userRecord](ctx, d.db, userID)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", ports.ErrNotFound
	}
	return record.toDomain().Address()
}

func (d *Directory) ResolveAddresses(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if err := d.ensureDB(); err != nil {
		return nil, err
	}
	records, err := platformpostgres.FindByIDs[userRecord](ctx, d.db, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(records))
	for i := range records {
		if addr, err := records[i].toDomain().Address(); err == nil {
			out[records[i].ID] = addr
		}
	}
	return out, nil
}

// Save inserts a user. Profile management is owned elsewhere; this serves seeding and tests.
func (d *Directory) Save(ctx context.Context, user *domain.User) error {
	if err := d.ensureDB(); err != nil {
		return err
	}
	record := toRecord(user)
	if err := platformpostgres.Insert(ctx, d.db, &record); err != nil {
		return err
	}
	user.ID = record.ID
	return nil
}

func (d *Directory) ensureDB() error {
	if d == nil || d.db == nil {
		return errors.New("postgres user directory not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}
