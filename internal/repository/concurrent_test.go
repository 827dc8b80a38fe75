package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/zscale/internal/db"
	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ProjectWritesInParallel mirrors a multi-project sync:
// each goroutine replaces one project's cache inside its own transaction
// while readers list other projects.
func TestConcurrentAccess_ProjectWritesInParallel(t *testing.T) {
	database := newConcurrentTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	projects := []string{"ALPHA", "BETA", "GAMMA", "DELTA"}
	var wg sync.WaitGroup
	for _, project := range projects {
		wg.Add(1)
		go func(project string) {
			defer wg.Done()
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				cases := NewSQLiteTestCaseRepo(tx)
				if err := cases.DeleteByProject(ctx, project); err != nil {
					return err
				}
				for i := 0; i < 25; i++ {
					tc := testutil.NewTestCase(project, fmt.Sprintf("case %d", i))
					if err := cases.Upsert(ctx, tc); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				t.Errorf("writer %s: %v", project, err)
			}
		}(project)
	}

	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo := NewSQLiteTestCaseRepo(database)
			for i := 0; i < 10; i++ {
				cases, err := repo.List(ctx)
				if err != nil {
					t.Errorf("reader: %v", err)
					return
				}
				for _, tc := range cases {
					if tc.Key == "" || tc.ProjectKey == "" {
						t.Errorf("reader saw a half-written row: %+v", tc)
					}
				}
			}
		}()
	}
	wg.Wait()

	repo := NewSQLiteTestCaseRepo(database)
	for _, project := range projects {
		cases, err := repo.ListByProject(ctx, project)
		require.NoError(t, err)
		assert.Len(t, cases, 25, project)
		for _, tc := range cases {
			assert.Equal(t, domain.PriorityMedium, tc.Priority)
		}
	}
}
