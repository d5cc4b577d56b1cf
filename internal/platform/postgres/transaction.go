package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Transaction phases reported by TransactionError.
const (
	OpBegin   = "begin"
	OpExecute = "execute"
	OpCommit  = "commit"
)

// ErrTransaction matches every failure surfaced by RunInTransaction.
var ErrTransaction = errors.New("transaction failed")

// TransactionError carries the phase that failed and the original cause.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() []error {
	return []error{ErrTransaction, e.Err}
}

// Transactor runs a unit of work inside one database transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var _ Transactor = (*Pool)(nil)

// RunInTransaction begins a transaction on a single connection, hands it to fn and commits
// when fn returns nil. Any error from fn rolls the transaction back; a rollback failure is
// joined to the original error. A panic in fn rolls back and is re-raised.
func (p *Pool) RunInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := p.ensure(); err != nil {
		return &TransactionError{Op: OpBegin, Err: err}
	}
	return runInTransaction(p.db.WithContext(ctx), fn)
}

func runInTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return &TransactionError{Op: OpBegin, Err: tx.Error}
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if fnErr := fn(tx); fnErr != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			fnErr = errors.Join(fnErr, fmt.Errorf("rollback: %w", rbErr))
		}
		return &TransactionError{Op: OpExecute, Err: fnErr}
	}
	if cErr := tx.Commit().Error; cErr != nil {
		return &TransactionError{Op: OpCommit, Err: cErr}
	}
	return nil
}

// InTransaction is RunInTransaction for units of work that produce a value.
// The zero value is returned when the transaction fails.
func InTransaction[T any](ctx context.Context, t Transactor, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var out T
	err := t.RunInTransaction(ctx, func(tx *gorm.DB) error {
		value, err := fn(tx)
		if err != nil {
			return err
		}
		out = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
