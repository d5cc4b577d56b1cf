package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTransactor struct {
	calls int
	err   error
}

func (f *fakeTransactor) RunInTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	if err := fn(nil); err != nil {
		return &TransactionError{Op: OpExecute, Err: err}
	}
	return f.err
}

func TestTransactionError_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("create order: %w", &TransactionError{Op: OpCommit, Err: cause})

	require.ErrorIs(t, err, ErrTransaction)
	require.ErrorIs(t, err, cause)
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	require.Equal(t, OpCommit, txErr.Op)
	require.Contains(t, err.Error(), "transaction commit: duplicate key")
}

func TestTransactionError_KeepsOriginalWhenRollbackFails(t *testing.T) {
	cause := errors.New("insert item")
	rollback := errors.New("connection reset")
	err := &TransactionError{Op: OpExecute, Err: errors.Join(cause, fmt.Errorf("rollback: %w", rollback))}

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, rollback)
}

func TestInTransaction_ReturnsValue(t *testing.T) {
	tr := &fakeTransactor{}
	got, err := InTransaction(context.Background(), tr, func(*gorm.DB) (int64, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
	require.Equal(t, 1, tr.calls)
}

func TestInTransaction_ZeroValueOnFailure(t *testing.T) {
	cause := errors.New("boom")
	got, err := InTransaction(context.Background(), &fakeTransactor{}, func(*gorm.DB) (string, error) {
		return "partial", cause
	})
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrTransaction)
	require.Empty(t, got)

	commitErr := &TransactionError{Op: OpCommit, Err: errors.New("serialization failure")}
	got, err = InTransaction(context.Background(), &fakeTransactor{err: commitErr}, func(*gorm.DB) (string, error) {
		return "written", nil
	})
	require.ErrorIs(t, err, ErrTransaction)
	require.Empty(t, got)
}

func TestRunInTransaction_UnconfiguredPool(t *testing.T) {
	var pool *Pool
	err := pool.RunInTransaction(context.Background(), func(*gorm.DB) error { return nil })
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	require.Equal(t, OpBegin, txErr.Op)
}

func TestPoolConfig_Defaults(t *testing.T) {
	cfg := PoolConfig{MaxOpenConns: 4, MaxIdleConns: 10}.withDefaults()
	require.Equal(t, 4, cfg.MaxOpenConns)
	require.Equal(t, 4, cfg.MaxIdleConns)
	require.Equal(t, DefaultPoolConfig().ConnMaxIdleTime, cfg.ConnMaxIdleTime)
	require.Equal(t, DefaultPoolConfig().ConnMaxLifetime, cfg.ConnMaxLifetime)

	require.Equal(t, DefaultPoolConfig(), PoolConfig{}.withDefaults())
}

func TestViolationClassifiers(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})
	check := &TransactionError{Op: OpExecute, Err: &pgconn.PgError{Code: "23514"}}

	require.True(t, IsForeignKeyViolation(fk))
	require.False(t, IsCheckViolation(fk))
	require.True(t, IsCheckViolation(check))
	require.False(t, IsForeignKeyViolation(errors.New("plain")))
}
