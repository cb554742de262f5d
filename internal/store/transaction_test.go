package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunInTransaction_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		assert.NotNil(t, tx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	expectedErr := errors.New("function failed")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_BeginError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("begin transaction failed"))

	called := false
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_CommitError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_RollbackError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

	fnErr := errors.New("function failed")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return fnErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, fnErr)
	assert.Contains(t, err.Error(), "rollback failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTransaction_Panic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTransactor(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var tr Transactor = NewDBTransactor(db)
	err := tr.RunInTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
