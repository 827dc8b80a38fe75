package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/zscale/internal/db"
	"github.com/alexanderramin/zscale/internal/domain"
)

// SQLiteSyncRunRepo implements SyncRunRepo using a SQLite database.
type SQLiteSyncRunRepo struct {
	db db.DBTX
}

func NewSQLiteSyncRunRepo(conn db.DBTX) *SQLiteSyncRunRepo {
	return &SQLiteSyncRunRepo{db: conn}
}

// runTimeLayout is fixed-width so timestamps sort lexically.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const syncRunColumns = `id, project_key, status, started_at, finished_at,
	test_cases, test_cycles, test_executions, error`

func (r *SQLiteSyncRunRepo) Create(ctx context.Context, run *domain.SyncRun) error {
	query := `INSERT INTO sync_runs (id, project_key, status, started_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.ProjectKey,
		string(run.Status),
		run.StartedAt.UTC().Format(runTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

func (r *SQLiteSyncRunRepo) Finish(ctx context.Context, run *domain.SyncRun) error {
	query := `UPDATE sync_runs SET status = ?, finished_at = ?, test_cases = ?, test_cycles = ?,
		test_executions = ?, error = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(run.Status),
		nullableTimeToString(run.FinishedAt, runTimeLayout),
		run.TestCases,
		run.TestCycles,
		run.TestExecutions,
		run.Error,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing sync run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSyncRunRepo) Latest(ctx context.Context, projectKey string) (*domain.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs
		WHERE project_key = ? ORDER BY started_at DESC LIMIT 1`
	run, err := scanSyncRun(r.db.QueryRowContext(ctx, query, projectKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sync run for %s: %w", projectKey, ErrNotFound)
		}
		return nil, fmt.Errorf("getting latest sync run: %w", err)
	}
	return run, nil
}

func (r *SQLiteSyncRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(row rowScanner) (*domain.SyncRun, error) {
	var (
		run        domain.SyncRun
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.ProjectKey,
		&status,
		&startedAt,
		&finishedAt,
		&run.TestCases,
		&run.TestCycles,
		&run.TestExecutions,
		&run.Error,
	)
	if err != nil {
		return nil, err
	}
	run.Status = domain.SyncStatus(status)
	if t, err := time.Parse(runTimeLayout, startedAt); err == nil {
		run.StartedAt = t
	}
	run.FinishedAt = parseNullableTime(finishedAt, runTimeLayout)
	return &run, nil
}
