package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/zapi"
)

type testCaseService struct {
	client   zapi.Client
	cases    repository.TestCaseRepo
	observer UseCaseObserver
}

// NewTestCaseService creates a TestCaseService. cases may be nil, which
// disables the write-through cache.
func NewTestCaseService(client zapi.Client, cases repository.TestCaseRepo, observers ...UseCaseObserver) TestCaseService {
	return &testCaseService{
		client:   client,
		cases:    cases,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Get fetches a test case from the API and refreshes the cached copy. When
// the API is unreachable the cached copy is served instead.
func (s *testCaseService) Get(ctx context.Context, key string) (tc *domain.TestCase, err error) {
	fields := map[string]any{"key": key, "source": "api"}
	defer observe(ctx, s.observer, "get-test-case", time.Now().UTC(), fields, &err)

	tc, err = s.client.GetTestCase(ctx, key)
	if err != nil {
		if s.cases != nil && (errors.Is(err, zapi.ErrUnavailable) || errors.Is(err, zapi.ErrTimeout)) {
			if cached, cacheErr := s.cases.GetByKey(ctx, key); cacheErr == nil {
				fields["source"] = "cache"
				return cached, nil
			}
		}
		return nil, err
	}
	if s.cases != nil {
		if err = s.cases.Upsert(ctx, tc); err != nil {
			return nil, fmt.Errorf("caching test case: %w", err)
		}
	}
	return tc, nil
}

func (s *testCaseService) Search(ctx context.Context, q zapi.TestCaseQuery) (*zapi.Page[domain.TestCase], error) {
	return s.client.SearchTestCases(ctx, q)
}

// SearchAll walks every page of a search.
func (s *testCaseService) SearchAll(ctx context.Context, q zapi.TestCaseQuery) (all []domain.TestCase, err error) {
	fields := map[string]any{"project": q.ProjectKey}
	defer observe(ctx, s.observer, "search-all-test-cases", time.Now().UTC(), fields, &err)

	all, err = zapi.CollectAll(ctx, func(ctx context.Context, startAt int) (*zapi.Page[domain.TestCase], error) {
		page := q
		page.StartAt = startAt
		if page.MaxResults <= 0 {
			page.MaxResults = s.client.PageSize()
		}
		return s.client.SearchTestCases(ctx, page)
	})
	fields["count"] = len(all)
	return all, err
}

func (s *testCaseService) Create(ctx context.Context, req TestCaseRequest) (created *zapi.Created, err error) {
	fields := map[string]any{"project": req.ProjectKey}
	defer observe(ctx, s.observer, "create-test-case", time.Now().UTC(), fields, &err)

	in, err := req.toInput(true)
	if err != nil {
		return nil, err
	}
	created, err = s.client.CreateTestCase(ctx, in)
	if err != nil {
		return nil, err
	}
	fields["key"] = created.Key
	return created, nil
}

func (s *testCaseService) Update(ctx context.Context, key string, req TestCaseRequest) (err error) {
	defer observe(ctx, s.observer, "update-test-case", time.Now().UTC(), map[string]any{"key": key}, &err)

	in, err := req.toInput(false)
	if err != nil {
		return err
	}
	if err = s.client.UpdateTestCase(ctx, key, in); err != nil {
		return err
	}
	if s.cases != nil {
		// Drop the stale copy; the next Get or sync refreshes it.
		if delErr := s.cases.Delete(ctx, key); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			return fmt.Errorf("invalidating cached test case: %w", delErr)
		}
	}
	return nil
}

func (s *testCaseService) Delete(ctx context.Context, key string) (err error) {
	defer observe(ctx, s.observer, "delete-test-case", time.Now().UTC(), map[string]any{"key": key}, &err)

	if err = s.client.DeleteTestCase(ctx, key); err != nil {
		return err
	}
	if s.cases != nil {
		if delErr := s.cases.Delete(ctx, key); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			return fmt.Errorf("removing cached test case: %w", delErr)
		}
	}
	return nil
}

func (s *testCaseService) Steps(ctx context.Context, key string) ([]domain.TestStep, error) {
	return s.client.GetTestSteps(ctx, key)
}

func (s *testCaseService) SetSteps(ctx context.Context, key string, steps []domain.TestStep) (err error) {
	defer observe(ctx, s.observer, "set-test-steps", time.Now().UTC(),
		map[string]any{"key": key, "steps": len(steps)}, &err)

	for i, step := range steps {
		if step.Description == "" {
			return fmt.Errorf("step %d: description is required", i+1)
		}
	}
	return s.client.SetTestSteps(ctx, key, steps)
}

func (s *testCaseService) Links(ctx context.Context, key string) ([]domain.IssueLink, error) {
	return s.client.GetTestCaseLinks(ctx, key)
}

func (s *testCaseService) Link(ctx context.Context, key, issueKey string) (err error) {
	defer observe(ctx, s.observer, "link-test-case", time.Now().UTC(),
		map[string]any{"key": key, "issue": issueKey}, &err)

	if issueKey == "" {
		return fmt.Errorf("issue key is required")
	}
	return s.client.LinkTestCaseToIssue(ctx, key, issueKey)
}

// ListCached filters the local cache without touching the API.
func (s *testCaseService) ListCached(ctx context.Context, filter CacheFilter) ([]*domain.TestCase, error) {
	if s.cases == nil {
		return nil, fmt.Errorf("no local cache configured")
	}
	if filter.KeyGlob != "" && !doublestar.ValidatePattern(filter.KeyGlob) {
		return nil, fmt.Errorf("invalid key pattern %q", filter.KeyGlob)
	}
	var priority domain.TestCasePriority
	if filter.Priority != "" {
		p, err := domain.ParseTestCasePriority(filter.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}
	var status domain.TestCaseStatus
	if filter.Status != "" {
		st, err := domain.ParseTestCaseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	var (
		all []*domain.TestCase
		err error
	)
	if filter.ProjectKey != "" {
		all, err = s.cases.ListByProject(ctx, filter.ProjectKey)
	} else {
		all, err = s.cases.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*domain.TestCase, 0, len(all))
	for _, tc := range all {
		if filter.KeyGlob != "" {
			if ok, _ := doublestar.Match(filter.KeyGlob, tc.Key); !ok {
				continue
			}
		}
		if priority != "" && tc.Priority != priority {
			continue
		}
		if status != "" && tc.Status != status {
			continue
		}
		out = append(out, tc)
	}
	return out, nil
}
