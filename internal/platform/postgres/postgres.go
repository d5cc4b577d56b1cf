package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig bounds the shared connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig returns the limits used when nothing is configured.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

func (c PoolConfig) withDefaults() PoolConfig {
	def := DefaultPoolConfig()
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = def.MaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = def.MaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = def.ConnMaxIdleTime
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = def.ConnMaxLifetime
	}
	return c
}

// Pool owns the process-wide set of PostgreSQL connections.
// Callers waiting for a connection are bounded only by their context deadline.
type Pool struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

var errNotConfigured = errors.New("postgres pool not configured")

// Open dials PostgreSQL via GORM, applies the pool limits and verifies connectivity.
func Open(ctx context.Context, dsn string, cfg PoolConfig) (*Pool, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	pool, err := NewPool(db, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.sqlDB.PingContext(pingCtx); err != nil {
		_ = pool.sqlDB.Close()
		return nil, err
	}
	return pool, nil
}

// NewPool wraps an already opened GORM handle and applies cfg to its connection pool.
func NewPool(db *gorm.DB, cfg PoolConfig) (*Pool, error) {
	if db == nil {
		return nil, errNotConfigured
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Pool{db: db, sqlDB: sqlDB}, nil
}

// DB returns the pool-level handle. Each statement run on it acquires and releases its own connection.
func (p *Pool) DB() *gorm.DB {
	if p == nil {
		return nil
	}
	return p.db
}

// Stats reports connection usage.
func (p *Pool) Stats() sql.DBStats {
	if p == nil || p.sqlDB == nil {
		return sql.DBStats{}
	}
	return p.sqlDB.Stats()
}

func (p *Pool) Close() error {
	if p == nil || p.sqlDB == nil {
		return nil
	}
	return p.sqlDB.Close()
}

func (p *Pool) ensure() error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	return nil
}

// ConnectWithFallback opens the pool and returns it with a cleanup function.
// When dsn is empty or the connection fails, it logs and returns nil with a no-op cleanup
// so callers can fall back to in-memory adapters.
func ConnectWithFallback(ctx context.Context, dsn string, cfg PoolConfig, logger *slog.Logger) (*Pool, func()) {
	if strings.TrimSpace(dsn) == "" {
		if logger != nil {
			logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		}
		return nil, func() {}
	}
	pool, err := Open(ctx, dsn, cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		stats := pool.Stats()
		logger.Info("postgres connection established", slog.Int("pool.max_open", stats.MaxOpenConnections))
	}
	return pool, func() { _ = pool.Close() }
}
