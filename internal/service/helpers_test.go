package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/testutil"
	"github.com/alexanderramin/zscale/internal/zapi"
)

type cacheRepos struct {
	db         *sql.DB
	cases      *repository.SQLiteTestCaseRepo
	cycles     *repository.SQLiteTestCycleRepo
	executions *repository.SQLiteTestExecutionRepo
	runs       *repository.SQLiteSyncRunRepo
}

func setupRepos(t *testing.T) cacheRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return cacheRepos{
		db:         database,
		cases:      repository.NewSQLiteTestCaseRepo(database),
		cycles:     repository.NewSQLiteTestCycleRepo(database),
		executions: repository.NewSQLiteTestExecutionRepo(database),
		runs:       repository.NewSQLiteSyncRunRepo(database),
	}
}

type recordingUseCaseObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingUseCaseObserver) byName(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func testutilClient(cfg zapi.Config) zapi.Client {
	return zapi.NewClient(cfg, zapi.NoopObserver{})
}
