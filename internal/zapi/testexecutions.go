package zapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/zscale/internal/domain"
)

// ExecutionQuery filters a test execution search.
type ExecutionQuery struct {
	ProjectKey   string
	TestCycleKey string
	TestCaseKey  string
	MaxResults   int
	StartAt      int
}

func (q ExecutionQuery) params(defaultSize int) url.Values {
	params := url.Values{}
	if q.ProjectKey != "" {
		params.Set("projectKey", q.ProjectKey)
	}
	if q.TestCycleKey != "" {
		params.Set("testCycle", q.TestCycleKey)
	}
	if q.TestCaseKey != "" {
		params.Set("testCase", q.TestCaseKey)
	}
	return pageParams(params, q.StartAt, q.MaxResults, defaultSize)
}

// ExecutionInput carries the writable test execution fields. Zero values are
// omitted from the request body.
type ExecutionInput struct {
	ProjectKey      string
	TestCaseKey     string
	TestCycleKey    string
	Status          domain.TestExecutionStatus
	Environment     string
	AssignedTo      string
	ExecutedBy      string
	ExecutionTimeMs *int
	Comment         string
	CustomFields    map[string]any
}

func (in ExecutionInput) payload() map[string]any {
	body := map[string]any{}
	set := func(k, v string) {
		if v != "" {
			body[k] = v
		}
	}
	set("projectKey", in.ProjectKey)
	set("testCaseKey", in.TestCaseKey)
	set("testCycleKey", in.TestCycleKey)
	set("statusName", string(in.Status))
	set("environmentName", in.Environment)
	set("assignedToId", in.AssignedTo)
	set("executedById", in.ExecutedBy)
	set("comment", in.Comment)
	if in.ExecutionTimeMs != nil {
		body["executionTime"] = *in.ExecutionTimeMs
	}
	if len(in.CustomFields) > 0 {
		body["customFields"] = in.CustomFields
	}
	return body
}

func (c *client) GetTestExecution(ctx context.Context, key string) (*domain.TestExecution, error) {
	var w wireTestExecution
	if err := c.do(ctx, http.MethodGet, "testexecutions/"+escapeKey(key), nil, nil, &w); err != nil {
		return nil, fmt.Errorf("getting test execution %s: %w", key, err)
	}
	te := w.toDomain()
	return &te, nil
}

func (c *client) SearchTestExecutions(ctx context.Context, q ExecutionQuery) (*Page[domain.TestExecution], error) {
	var page Page[wireTestExecution]
	if err := c.do(ctx, http.MethodGet, "testexecutions", q.params(c.cfg.PageSize), nil, &page); err != nil {
		return nil, fmt.Errorf("searching test executions: %w", err)
	}
	return mapPage(&page, wireTestExecution.toDomain), nil
}

func (c *client) CreateTestExecution(ctx context.Context, in ExecutionInput) (*Created, error) {
	var created Created
	if err := c.do(ctx, http.MethodPost, "testexecutions", nil, in.payload(), &created); err != nil {
		return nil, fmt.Errorf("creating test execution: %w", err)
	}
	return &created, nil
}

func (c *client) UpdateTestExecution(ctx context.Context, key string, in ExecutionInput) error {
	if err := c.do(ctx, http.MethodPut, "testexecutions/"+escapeKey(key), nil, in.payload(), nil); err != nil {
		return fmt.Errorf("updating test execution %s: %w", key, err)
	}
	return nil
}

func (c *client) DeleteTestExecution(ctx context.Context, key string) error {
	if err := c.do(ctx, http.MethodDelete, "testexecutions/"+escapeKey(key), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting test execution %s: %w", key, err)
	}
	return nil
}
