package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/zapi"
)

type testCycleService struct {
	client   zapi.Client
	cycles   repository.TestCycleRepo
	observer UseCaseObserver
}

func NewTestCycleService(client zapi.Client, cycles repository.TestCycleRepo, observers ...UseCaseObserver) TestCycleService {
	return &testCycleService{
		client:   client,
		cycles:   cycles,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *testCycleService) Get(ctx context.Context, key string) (tc *domain.TestCycle, err error) {
	defer observe(ctx, s.observer, "get-test-cycle", time.Now().UTC(), map[string]any{"key": key}, &err)

	tc, err = s.client.GetTestCycle(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.cycles != nil {
		if err = s.cycles.Upsert(ctx, tc); err != nil {
			return nil, fmt.Errorf("caching test cycle: %w", err)
		}
	}
	return tc, nil
}

func (s *testCycleService) Search(ctx context.Context, q zapi.TestCycleQuery) (*zapi.Page[domain.TestCycle], error) {
	return s.client.SearchTestCycles(ctx, q)
}

func (s *testCycleService) Create(ctx context.Context, req TestCycleRequest) (created *zapi.Created, err error) {
	fields := map[string]any{"project": req.ProjectKey}
	defer observe(ctx, s.observer, "create-test-cycle", time.Now().UTC(), fields, &err)

	in, err := req.toInput(true)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.CycleNotStarted
	}
	created, err = s.client.CreateTestCycle(ctx, in)
	if err != nil {
		return nil, err
	}
	fields["key"] = created.Key
	return created, nil
}

func (s *testCycleService) Update(ctx context.Context, key string, req TestCycleRequest) (err error) {
	defer observe(ctx, s.observer, "update-test-cycle", time.Now().UTC(), map[string]any{"key": key}, &err)

	in, err := req.toInput(false)
	if err != nil {
		return err
	}
	return s.client.UpdateTestCycle(ctx, key, in)
}

func (s *testCycleService) Delete(ctx context.Context, key string) (err error) {
	defer observe(ctx, s.observer, "delete-test-cycle", time.Now().UTC(), map[string]any{"key": key}, &err)
	return s.client.DeleteTestCycle(ctx, key)
}

func (s *testCycleService) Link(ctx context.Context, key, issueKey string) (err error) {
	defer observe(ctx, s.observer, "link-test-cycle", time.Now().UTC(),
		map[string]any{"key": key, "issue": issueKey}, &err)

	if issueKey == "" {
		return fmt.Errorf("issue key is required")
	}
	return s.client.LinkTestCycleToIssue(ctx, key, issueKey)
}

func (s *testCycleService) AddTestCase(ctx context.Context, cycleKey, testCaseKey string) (created *zapi.Created, err error) {
	defer observe(ctx, s.observer, "add-test-case-to-cycle", time.Now().UTC(),
		map[string]any{"cycle": cycleKey, "test_case": testCaseKey}, &err)
	return s.client.AddTestCaseToCycle(ctx, cycleKey, testCaseKey)
}
