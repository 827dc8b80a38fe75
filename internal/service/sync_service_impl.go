package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/zscale/internal/db"
	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/zapi"
)

// DefaultSyncConcurrency bounds how many projects are pulled at once.
const DefaultSyncConcurrency = 4

type syncService struct {
	client   zapi.Client
	uow      db.UnitOfWork
	runs     repository.SyncRunRepo
	limit    int
	observer UseCaseObserver
	now      func() time.Time
}

func NewSyncService(client zapi.Client, uow db.UnitOfWork, runs repository.SyncRunRepo, limit int, observers ...UseCaseObserver) SyncService {
	if limit <= 0 {
		limit = DefaultSyncConcurrency
	}
	return &syncService{
		client:   client,
		uow:      uow,
		runs:     runs,
		limit:    limit,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *syncService) Sync(ctx context.Context, projectKeys []string) ([]*domain.SyncRun, error) {
	keys := uniqueKeys(projectKeys)
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one project key is required")
	}

	runs := make([]*domain.SyncRun, len(keys))
	errs := make([]error, len(keys))

	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, key := range keys {
		g.Go(func() error {
			runs[i], errs[i] = s.syncProject(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	return runs, errors.Join(errs...)
}

func (s *syncService) Recent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	return s.runs.ListRecent(ctx, limit)
}

type projectSnapshot struct {
	cases      []domain.TestCase
	cycles     []domain.TestCycle
	executions []domain.TestExecution
}

func (s *syncService) syncProject(ctx context.Context, projectKey string) (run *domain.SyncRun, err error) {
	fields := map[string]any{"project": projectKey}
	defer observe(ctx, s.observer, "sync-project", s.now(), fields, &err)

	run = &domain.SyncRun{
		ID:         uuid.New().String(),
		ProjectKey: projectKey,
		Status:     domain.SyncRunning,
		StartedAt:  s.now(),
	}
	if err = s.runs.Create(ctx, run); err != nil {
		return run, fmt.Errorf("sync %s: %w", projectKey, err)
	}

	snap, err := s.fetch(ctx, projectKey)
	if err == nil {
		err = s.store(ctx, projectKey, snap, run)
	}

	finished := s.now()
	run.FinishedAt = &finished
	run.Status = domain.SyncSucceeded
	if err != nil {
		run.Status = domain.SyncFailed
		run.Error = err.Error()
		run.TestCases, run.TestCycles, run.TestExecutions = 0, 0, 0
		err = fmt.Errorf("sync %s: %w", projectKey, err)
	}
	fields["test_cases"] = run.TestCases
	fields["test_executions"] = run.TestExecutions

	// Record the outcome even when the caller's context was cancelled.
	if finishErr := s.runs.Finish(context.WithoutCancel(ctx), run); finishErr != nil {
		return run, errors.Join(err, fmt.Errorf("recording sync run: %w", finishErr))
	}
	return run, err
}

// fetch pulls the three collections of one project concurrently.
func (s *syncService) fetch(ctx context.Context, projectKey string) (*projectSnapshot, error) {
	snap := &projectSnapshot{}
	pageSize := s.client.PageSize()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.cases, err = zapi.CollectAll(gctx, func(ctx context.Context, startAt int) (*zapi.Page[domain.TestCase], error) {
			return s.client.SearchTestCases(ctx, zapi.TestCaseQuery{ProjectKey: projectKey, StartAt: startAt, MaxResults: pageSize})
		})
		return err
	})
	g.Go(func() error {
		var err error
		snap.cycles, err = zapi.CollectAll(gctx, func(ctx context.Context, startAt int) (*zapi.Page[domain.TestCycle], error) {
			return s.client.SearchTestCycles(ctx, zapi.TestCycleQuery{ProjectKey: projectKey, StartAt: startAt, MaxResults: pageSize})
		})
		return err
	})
	g.Go(func() error {
		var err error
		snap.executions, err = zapi.CollectAll(gctx, func(ctx context.Context, startAt int) (*zapi.Page[domain.TestExecution], error) {
			return s.client.SearchTestExecutions(ctx, zapi.ExecutionQuery{ProjectKey: projectKey, StartAt: startAt, MaxResults: pageSize})
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// store replaces the project's cached rows in one transaction. Records
// without a key cannot be cached and are skipped.
func (s *syncService) store(ctx context.Context, projectKey string, snap *projectSnapshot, run *domain.SyncRun) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cases := repository.NewSQLiteTestCaseRepo(tx)
		cycles := repository.NewSQLiteTestCycleRepo(tx)
		executions := repository.NewSQLiteTestExecutionRepo(tx)

		if err := cases.DeleteByProject(ctx, projectKey); err != nil {
			return err
		}
		if err := cycles.DeleteByProject(ctx, projectKey); err != nil {
			return err
		}
		if err := executions.DeleteByProject(ctx, projectKey); err != nil {
			return err
		}

		run.TestCases, run.TestCycles, run.TestExecutions = 0, 0, 0
		for i := range snap.cases {
			tc := &snap.cases[i]
			if tc.Key == "" {
				continue
			}
			if tc.ProjectKey == "" {
				tc.ProjectKey = projectKey
			}
			if err := cases.Upsert(ctx, tc); err != nil {
				return err
			}
			run.TestCases++
		}
		for i := range snap.cycles {
			tc := &snap.cycles[i]
			if tc.Key == "" {
				continue
			}
			if tc.ProjectKey == "" {
				tc.ProjectKey = projectKey
			}
			if err := cycles.Upsert(ctx, tc); err != nil {
				return err
			}
			run.TestCycles++
		}
		for i := range snap.executions {
			te := &snap.executions[i]
			if te.Key == "" {
				continue
			}
			if te.ProjectKey == "" {
				te.ProjectKey = projectKey
			}
			if err := executions.Upsert(ctx, te); err != nil {
				return err
			}
			run.TestExecutions++
		}
		return nil
	})
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
