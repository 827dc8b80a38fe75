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

// SQLiteTestCaseRepo implements TestCaseRepo using a SQLite database.
type SQLiteTestCaseRepo struct {
	db db.DBTX
}

// NewSQLiteTestCaseRepo creates a new SQLiteTestCaseRepo.
func NewSQLiteTestCaseRepo(conn db.DBTX) *SQLiteTestCaseRepo {
	return &SQLiteTestCaseRepo{db: conn}
}

func (r *SQLiteTestCaseRepo) Upsert(ctx context.Context, tc *domain.TestCase) error {
	if tc.Key == "" {
		return fmt.Errorf("upserting test case: empty key")
	}
	payload, err := marshalPayload(tc)
	if err != nil {
		return err
	}
	query := `INSERT INTO test_cases (key, project_key, name, priority, status, folder_id,
		created_on, updated_on, payload, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			project_key = excluded.project_key,
			name        = excluded.name,
			priority    = excluded.priority,
			status      = excluded.status,
			folder_id   = excluded.folder_id,
			created_on  = excluded.created_on,
			updated_on  = excluded.updated_on,
			payload     = excluded.payload,
			synced_at   = excluded.synced_at`
	_, err = r.db.ExecContext(ctx, query,
		tc.Key,
		tc.ProjectKey,
		tc.Name,
		enumOrNull(string(tc.Priority), tc.Priority.Valid()),
		enumOrNull(string(tc.Status), tc.Status.Valid()),
		nullableIntToValue(tc.FolderID),
		nullableTimeToString(tc.CreatedOn, time.RFC3339),
		nullableTimeToString(tc.UpdatedOn, time.RFC3339),
		payload,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting test case %s: %w", tc.Key, err)
	}
	return nil
}

func (r *SQLiteTestCaseRepo) GetByKey(ctx context.Context, key string) (*domain.TestCase, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM test_cases WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test case %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("getting test case %s: %w", key, err)
	}
	var tc domain.TestCase
	if err := unmarshalPayload(payload, &tc); err != nil {
		return nil, fmt.Errorf("test case %s: %w", key, err)
	}
	return &tc, nil
}

func (r *SQLiteTestCaseRepo) List(ctx context.Context) ([]*domain.TestCase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM test_cases ORDER BY project_key, length(key), key`)
	if err != nil {
		return nil, fmt.Errorf("listing test cases: %w", err)
	}
	defer rows.Close()
	return scanTestCases(rows)
}

func (r *SQLiteTestCaseRepo) ListByProject(ctx context.Context, projectKey string) ([]*domain.TestCase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM test_cases WHERE project_key = ? ORDER BY length(key), key`, projectKey)
	if err != nil {
		return nil, fmt.Errorf("listing test cases by project: %w", err)
	}
	defer rows.Close()
	return scanTestCases(rows)
}

func (r *SQLiteTestCaseRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting test case %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("test case %s: %w", key, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTestCaseRepo) DeleteByProject(ctx context.Context, projectKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE project_key = ?`, projectKey); err != nil {
		return fmt.Errorf("clearing test cases for %s: %w", projectKey, err)
	}
	return nil
}

func scanTestCases(rows *sql.Rows) ([]*domain.TestCase, error) {
	var out []*domain.TestCase
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning test case: %w", err)
		}
		var tc domain.TestCase
		if err := unmarshalPayload(payload, &tc); err != nil {
			return nil, err
		}
		out = append(out, &tc)
	}
	return out, rows.Err()
}
