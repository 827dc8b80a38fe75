package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/zscale/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertRun(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sync_runs (id, project_key, started_at) VALUES (?, 'PROJ', '2026-01-01T00:00:00Z')`, id)
	return err
}

func runExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sync_runs WHERE id = ?`, id).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertRun(ctx, tx, "run-1")
	})
	require.NoError(t, err)
	assert.True(t, runExists(t, database, "run-1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestUoW(t)
	failure := errors.New("upstream page failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertRun(ctx, tx, "run-2"); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.False(t, runExists(t, database, "run-2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertRun(ctx, tx, "run-3")
			panic("boom")
		})
	})
	assert.False(t, runExists(t, database, "run-3"), "row should not exist after panic rollback")
}

func TestWithinTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertRun(ctx, tx, "run-4"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sync_runs (id, project_key, status, started_at) VALUES ('run-5', 'PROJ', 'bogus', '2026-01-01T00:00:00Z')`)
		return err
	})
	require.Error(t, err)
	assert.False(t, runExists(t, database, "run-4"))
}
