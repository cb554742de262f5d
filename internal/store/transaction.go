package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor runs a unit of work atomically. Services depend on this
// rather than on *sql.DB so they can be exercised without a database.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// DBTransactor is the Transactor backed by a real connection pool.
type DBTransactor struct {
	db *sql.DB
}

// NewDBTransactor creates a Transactor for db.
func NewDBTransactor(db *sql.DB) *DBTransactor {
	return &DBTransactor{db: db}
}

// RunInTransaction implements Transactor.
func (t *DBTransactor) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error or panics, the transaction is rolled back.
// Otherwise, the transaction is committed.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic", slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed")
	return nil
}
