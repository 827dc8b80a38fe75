package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/zscale/internal/domain"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// sqlInList renders values as a SQL list literal: 'a','b','c'.
func sqlInList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ",")
}

// Enumerated columns are NULL when the server reports a value outside the
// closed tables; the payload column keeps the record verbatim.
var migrations = []string{
	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS test_cases (
		key           TEXT PRIMARY KEY,
		project_key   TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		priority      TEXT CHECK(priority IN (%s)),
		status        TEXT CHECK(status IN (%s)),
		folder_id     INTEGER,
		created_on    TEXT,
		updated_on    TEXT,
		payload       TEXT NOT NULL,
		synced_at     TEXT NOT NULL
	)`, sqlInList(domain.TestCasePriorityNames()), sqlInList(domain.TestCaseStatusNames())),

	`CREATE INDEX IF NOT EXISTS idx_test_cases_project ON test_cases(project_key)`,

	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS test_cycles (
		key           TEXT PRIMARY KEY,
		project_key   TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		status        TEXT CHECK(status IN (%s)),
		planned_start TEXT,
		planned_end   TEXT,
		payload       TEXT NOT NULL,
		synced_at     TEXT NOT NULL
	)`, sqlInList(domain.TestCycleStatusNames())),

	`CREATE INDEX IF NOT EXISTS idx_test_cycles_project ON test_cycles(project_key)`,

	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS test_executions (
		key            TEXT PRIMARY KEY,
		project_key    TEXT NOT NULL,
		test_case_key  TEXT NOT NULL DEFAULT '',
		test_cycle_key TEXT NOT NULL DEFAULT '',
		status         TEXT CHECK(status IN (%s)),
		payload        TEXT NOT NULL,
		synced_at      TEXT NOT NULL
	)`, sqlInList(domain.TestExecutionStatusNames())),

	`CREATE INDEX IF NOT EXISTS idx_test_executions_project ON test_executions(project_key)`,
	`CREATE INDEX IF NOT EXISTS idx_test_executions_cycle ON test_executions(test_cycle_key)`,

	`CREATE TABLE IF NOT EXISTS sync_runs (
		id              TEXT PRIMARY KEY,
		project_key     TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'running'
		                CHECK(status IN ('running','succeeded','failed')),
		started_at      TEXT NOT NULL,
		finished_at     TEXT,
		test_cases      INTEGER NOT NULL DEFAULT 0,
		test_cycles     INTEGER NOT NULL DEFAULT 0,
		test_executions INTEGER NOT NULL DEFAULT 0,
		error           TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_runs_project ON sync_runs(project_key, started_at)`,
}
