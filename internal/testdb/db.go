package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup operations against the test database.
const TestTimeout = 5 * time.Second

// IsIntegrationTestEnvironment returns true if the DATABASE_URL environment
// variable is set, indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns DATABASE_URL, falling back to TASKAPI_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("TASKAPI_TEST_DB_URL")
}

// GetTestDB opens the test database, applies the embedded migrations and
// registers cleanup. The test is skipped when no database is configured.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("skipping integration test: DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", GetTestDatabaseURL())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	require.NoError(t, postgres.Migrate(ctx, db, "up", nil), "failed to apply migrations")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so each
// test sees a clean schema.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CountRows returns the number of rows in table matching where.
func CountRows(t *testing.T, db store.DBTX, table, where string, args ...any) int {
	t.Helper()

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}
