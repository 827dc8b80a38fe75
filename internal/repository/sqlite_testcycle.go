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

// SQLiteTestCycleRepo implements TestCycleRepo using a SQLite database.
type SQLiteTestCycleRepo struct {
	db db.DBTX
}

func NewSQLiteTestCycleRepo(conn db.DBTX) *SQLiteTestCycleRepo {
	return &SQLiteTestCycleRepo{db: conn}
}

func (r *SQLiteTestCycleRepo) Upsert(ctx context.Context, tc *domain.TestCycle) error {
	if tc.Key == "" {
		return fmt.Errorf("upserting test cycle: empty key")
	}
	payload, err := marshalPayload(tc)
	if err != nil {
		return err
	}
	query := `INSERT INTO test_cycles (key, project_key, name, status, planned_start, planned_end, payload, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			project_key   = excluded.project_key,
			name          = excluded.name,
			status        = excluded.status,
			planned_start = excluded.planned_start,
			planned_end   = excluded.planned_end,
			payload       = excluded.payload,
			synced_at     = excluded.synced_at`
	_, err = r.db.ExecContext(ctx, query,
		tc.Key,
		tc.ProjectKey,
		tc.Name,
		enumOrNull(string(tc.Status), tc.Status.Valid()),
		nullableTimeToString(tc.PlannedStartDate, time.RFC3339),
		nullableTimeToString(tc.PlannedEndDate, time.RFC3339),
		payload,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting test cycle %s: %w", tc.Key, err)
	}
	return nil
}

func (r *SQLiteTestCycleRepo) GetByKey(ctx context.Context, key string) (*domain.TestCycle, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM test_cycles WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test cycle %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("getting test cycle %s: %w", key, err)
	}
	var tc domain.TestCycle
	if err := unmarshalPayload(payload, &tc); err != nil {
		return nil, fmt.Errorf("test cycle %s: %w", key, err)
	}
	return &tc, nil
}

func (r *SQLiteTestCycleRepo) ListByProject(ctx context.Context, projectKey string) ([]*domain.TestCycle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM test_cycles WHERE project_key = ? ORDER BY length(key), key`, projectKey)
	if err != nil {
		return nil, fmt.Errorf("listing test cycles by project: %w", err)
	}
	defer rows.Close()

	var out []*domain.TestCycle
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning test cycle: %w", err)
		}
		var tc domain.TestCycle
		if err := unmarshalPayload(payload, &tc); err != nil {
			return nil, err
		}
		out = append(out, &tc)
	}
	return out, rows.Err()
}

func (r *SQLiteTestCycleRepo) DeleteByProject(ctx context.Context, projectKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM test_cycles WHERE project_key = ?`, projectKey); err != nil {
		return fmt.Errorf("clearing test cycles for %s: %w", projectKey, err)
	}
	return nil
}
