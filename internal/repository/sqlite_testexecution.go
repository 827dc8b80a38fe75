package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/zscale/internal/db"
	"github.com/alexanderramin/zscale/internal/domain"
)

// SQLiteTestExecutionRepo implements TestExecutionRepo using a SQLite database.
type SQLiteTestExecutionRepo struct {
	db db.DBTX
}

func NewSQLiteTestExecutionRepo(conn db.DBTX) *SQLiteTestExecutionRepo {
	return &SQLiteTestExecutionRepo{db: conn}
}

func (r *SQLiteTestExecutionRepo) Upsert(ctx context.Context, te *domain.TestExecution) error {
	if te.Key == "" {
		return fmt.Errorf("upserting test execution: empty key")
	}
	payload, err := marshalPayload(te)
	if err != nil {
		return err
	}
	query := `INSERT INTO test_executions (key, project_key, test_case_key, test_cycle_key, status, payload, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			project_key    = excluded.project_key,
			test_case_key  = excluded.test_case_key,
			test_cycle_key = excluded.test_cycle_key,
			status         = excluded.status,
			payload        = excluded.payload,
			synced_at      = excluded.synced_at`
	_, err = r.db.ExecContext(ctx, query,
		te.Key,
		te.ProjectKey,
		te.TestCaseKey,
		te.TestCycleKey,
		enumOrNull(string(te.Status), te.Status.Valid()),
		payload,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting test execution %s: %w", te.Key, err)
	}
	return nil
}

func (r *SQLiteTestExecutionRepo) ListByCycle(ctx context.Context, cycleKey string) ([]*domain.TestExecution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM test_executions WHERE test_cycle_key = ? ORDER BY length(key), key`, cycleKey)
	if err != nil {
		return nil, fmt.Errorf("listing test executions by cycle: %w", err)
	}
	defer rows.Close()
	return scanTestExecutions(rows)
}

func (r *SQLiteTestExecutionRepo) ListByProject(ctx context.Context, projectKey string) ([]*domain.TestExecution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM test_executions WHERE project_key = ? ORDER BY length(key), key`, projectKey)
	if err != nil {
		return nil, fmt.Errorf("listing test executions by project: %w", err)
	}
	defer rows.Close()
	return scanTestExecutions(rows)
}

func (r *SQLiteTestExecutionRepo) DeleteByProject(ctx context.Context, projectKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM test_executions WHERE project_key = ?`, projectKey); err != nil {
		return fmt.Errorf("clearing test executions for %s: %w", projectKey, err)
	}
	return nil
}

func scanTestExecutions(rows *sql.Rows) ([]*domain.TestExecution, error) {
	var out []*domain.TestExecution
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning test execution: %w", err)
		}
		var te domain.TestExecution
		if err := unmarshalPayload(payload, &te); err != nil {
			return nil, err
		}
		out = append(out, &te)
	}
	return out, rows.Err()
}
