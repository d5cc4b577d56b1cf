//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-service/internal/domains/users/domain"
	"github.com/Apurer/go-order-service/internal/domains/users/ports"
	"github.com/Apurer/go-order-service/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestDirectory_ResolveAddress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	dir := NewDirectory(db)
	ctx := context.Background()

	ada := &domain.User{Username: "ada", Email: "ada@example.com"}
	require.NoError(t, dir.Save(ctx, ada))
	silent := &domain.User{Username: "silent"}
	require.NoError(t, dir.Save(ctx, silent))

	addr, err := dir.ResolveAddress(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", addr)

	_, err = dir.ResolveAddress(ctx, silent.ID)
	assert.ErrorIs(t, err, domain.ErrNoAddress)
	_, err = dir.ResolveAddress(ctx, 9999)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	batch, err := dir.ResolveAddresses(ctx, []int64{ada.ID, silent.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{ada.ID: "ada@example.com"}, batch)
}
