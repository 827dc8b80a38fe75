package zapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
)

// TestCycleQuery filters a test cycle search.
type TestCycleQuery struct {
	ProjectKey string
	FolderID   *int
	MaxResults int
	StartAt    int
}

func (q TestCycleQuery) params(defaultSize int) url.Values {
	params := url.Values{}
	if q.ProjectKey != "" {
		params.Set("projectKey", q.ProjectKey)
	}
	if q.FolderID != nil {
		params.Set("folderId", strconv.Itoa(*q.FolderID))
	}
	return pageParams(params, q.StartAt, q.MaxResults, defaultSize)
}

// TestCycleInput carries the writable test cycle fields. Zero values are
// omitted from the request body.
type TestCycleInput struct {
	ProjectKey       string
	Name             string
	Description      string
	Status           domain.TestCycleStatus
	FolderID         *int
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	CustomFields     map[string]any
}

func (in TestCycleInput) payload() map[string]any {
	body := map[string]any{}
	if in.ProjectKey != "" {
		body["projectKey"] = in.ProjectKey
	}
	if in.Name != "" {
		body["name"] = in.Name
	}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.Status != "" {
		body["statusName"] = string(in.Status)
	}
	if in.FolderID != nil {
		body["folderId"] = *in.FolderID
	}
	if in.PlannedStartDate != nil {
		body["plannedStartDate"] = in.PlannedStartDate.UTC().Format(time.RFC3339)
	}
	if in.PlannedEndDate != nil {
		body["plannedEndDate"] = in.PlannedEndDate.UTC().Format(time.RFC3339)
	}
	if len(in.CustomFields) > 0 {
		body["customFields"] = in.CustomFields
	}
	return body
}

func (c *client) GetTestCycle(ctx context.Context, key string) (*domain.TestCycle, error) {
	var w wireTestCycle
	if err := c.do(ctx, http.MethodGet, "testcycles/"+escapeKey(key), nil, nil, &w); err != nil {
		return nil, fmt.Errorf("getting test cycle %s: %w", key, err)
	}
	tc := w.toDomain()
	return &tc, nil
}

func (c *client) SearchTestCycles(ctx context.Context, q TestCycleQuery) (*Page[domain.TestCycle], error) {
	var page Page[wireTestCycle]
	if err := c.do(ctx, http.MethodGet, "testcycles", q.params(c.cfg.PageSize), nil, &page); err != nil {
		return nil, fmt.Errorf("searching test cycles: %w", err)
	}
	return mapPage(&page, wireTestCycle.toDomain), nil
}

func (c *client) CreateTestCycle(ctx context.Context, in TestCycleInput) (*Created, error) {
	var created Created
	if err := c.do(ctx, http.MethodPost, "testcycles", nil, in.payload(), &created); err != nil {
		return nil, fmt.Errorf("creating test cycle: %w", err)
	}
	return &created, nil
}

func (c *client) UpdateTestCycle(ctx context.Context, key string, in TestCycleInput) error {
	if err := c.do(ctx, http.MethodPut, "testcycles/"+escapeKey(key), nil, in.payload(), nil); err != nil {
		return fmt.Errorf("updating test cycle %s: %w", key, err)
	}
	return nil
}

func (c *client) DeleteTestCycle(ctx context.Context, key string) error {
	if err := c.do(ctx, http.MethodDelete, "testcycles/"+escapeKey(key), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting test cycle %s: %w", key, err)
	}
	return nil
}

func (c *client) LinkTestCycleToIssue(ctx context.Context, key, issueKey string) error {
	body := map[string]any{"issueKey": issueKey}
	if err := c.do(ctx, http.MethodPost, "testcycles/"+escapeKey(key)+"/links/issues", nil, body, nil); err != nil {
		return fmt.Errorf("linking %s to %s: %w", key, issueKey, err)
	}
	return nil
}

// AddTestCaseToCycle creates a "Not Executed" execution of the test case
// inside the cycle. The project key is taken from the test case key.
func (c *client) AddTestCaseToCycle(ctx context.Context, cycleKey, testCaseKey string) (*Created, error) {
	projectKey, err := domain.ProjectKeyFromTestCaseKey(testCaseKey)
	if err != nil {
		return nil, err
	}
	created, err := c.CreateTestExecution(ctx, ExecutionInput{
		ProjectKey:   projectKey,
		TestCaseKey:  testCaseKey,
		TestCycleKey: cycleKey,
		Status:       domain.ExecutionNotExecuted,
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s to cycle %s: %w", testCaseKey, cycleKey, err)
	}
	return created, nil
}
