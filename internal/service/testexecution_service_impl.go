package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/zapi"
)

type testExecutionService struct {
	client     zapi.Client
	executions repository.TestExecutionRepo
	observer   UseCaseObserver
}

func NewTestExecutionService(client zapi.Client, executions repository.TestExecutionRepo, observers ...UseCaseObserver) TestExecutionService {
	return &testExecutionService{
		client:     client,
		executions: executions,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *testExecutionService) Get(ctx context.Context, key string) (*domain.TestExecution, error) {
	return s.client.GetTestExecution(ctx, key)
}

func (s *testExecutionService) Search(ctx context.Context, q zapi.ExecutionQuery) (*zapi.Page[domain.TestExecution], error) {
	return s.client.SearchTestExecutions(ctx, q)
}

func (s *testExecutionService) Create(ctx context.Context, req ExecutionRequest) (created *zapi.Created, err error) {
	fields := map[string]any{"test_case": req.TestCaseKey, "cycle": req.TestCycleKey}
	defer observe(ctx, s.observer, "create-test-execution", time.Now().UTC(), fields, &err)

	in, err := req.toInput(true)
	if err != nil {
		return nil, err
	}
	fields["status"] = string(in.Status)
	return s.client.CreateTestExecution(ctx, in)
}

func (s *testExecutionService) Update(ctx context.Context, key string, req ExecutionRequest) (err error) {
	defer observe(ctx, s.observer, "update-test-execution", time.Now().UTC(), map[string]any{"key": key}, &err)

	in, err := req.toInput(false)
	if err != nil {
		return err
	}
	return s.client.UpdateTestExecution(ctx, key, in)
}

func (s *testExecutionService) Delete(ctx context.Context, key string) (err error) {
	defer observe(ctx, s.observer, "delete-test-execution", time.Now().UTC(), map[string]any{"key": key}, &err)
	return s.client.DeleteTestExecution(ctx, key)
}

// Summary counts executions per status for a cycle, or for a whole project
// when no cycle is given.
func (s *testExecutionService) Summary(ctx context.Context, req SummaryRequest) (summary *domain.ExecutionSummary, err error) {
	fields := map[string]any{"project": req.ProjectKey, "cycle": req.TestCycleKey, "cached": req.Cached}
	defer observe(ctx, s.observer, "execution-summary", time.Now().UTC(), fields, &err)

	if req.ProjectKey == "" && req.TestCycleKey == "" {
		return nil, fmt.Errorf("summary needs a project key or a test cycle key")
	}

	var executions []domain.TestExecution
	if req.Cached {
		executions, err = s.cachedExecutions(ctx, req)
	} else {
		q := zapi.ExecutionQuery{ProjectKey: req.ProjectKey, TestCycleKey: req.TestCycleKey}
		executions, err = zapi.CollectAll(ctx, func(ctx context.Context, startAt int) (*zapi.Page[domain.TestExecution], error) {
			q.StartAt = startAt
			q.MaxResults = s.client.PageSize()
			return s.client.SearchTestExecutions(ctx, q)
		})
	}
	if err != nil {
		return nil, err
	}
	summary = domain.Summarize(executions)
	fields["total"] = summary.Total
	return summary, nil
}

func (s *testExecutionService) cachedExecutions(ctx context.Context, req SummaryRequest) ([]domain.TestExecution, error) {
	if s.executions == nil {
		return nil, fmt.Errorf("no local cache configured")
	}
	var (
		rows []*domain.TestExecution
		err  error
	)
	if req.TestCycleKey != "" {
		rows, err = s.executions.ListByCycle(ctx, req.TestCycleKey)
	} else {
		rows, err = s.executions.ListByProject(ctx, req.ProjectKey)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.TestExecution, len(rows))
	for i, te := range rows {
		out[i] = *te
	}
	return out, nil
}
