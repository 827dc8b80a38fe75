package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/zscale/internal/domain"
)

// TestCaseQuery filters a test case search.
type TestCaseQuery struct {
	ProjectKey string
	FolderID   *int
	MaxResults int
	StartAt    int
}

func (q TestCaseQuery) params(defaultSize int) url.Values {
	params := url.Values{}
	if q.ProjectKey != "" {
		params.Set("projectKey", q.ProjectKey)
	}
	if q.FolderID != nil {
		params.Set("folderId", strconv.Itoa(*q.FolderID))
	}
	return pageParams(params, q.StartAt, q.MaxResults, defaultSize)
}

// TestCaseInput carries the writable test case fields. Zero values are
// omitted from the request body, so an update only touches what is set.
type TestCaseInput struct {
	ProjectKey   string
	Name         string
	Objective    string
	Precondition string
	Priority     domain.TestCasePriority
	Status       domain.TestCaseStatus
	FolderID     *int
	Labels       []string
	CustomFields map[string]any
}

func (in TestCaseInput) payload() map[string]any {
	body := map[string]any{}
	if in.ProjectKey != "" {
		body["projectKey"] = in.ProjectKey
	}
	if in.Name != "" {
		body["name"] = in.Name
	}
	if in.Objective != "" {
		body["objective"] = in.Objective
	}
	if in.Precondition != "" {
		body["precondition"] = in.Precondition
	}
	if in.Priority != "" {
		body["priorityName"] = string(in.Priority)
	}
	if in.Status != "" {
		body["statusName"] = string(in.Status)
	}
	if in.FolderID != nil {
		body["folderId"] = *in.FolderID
	}
	if len(in.Labels) > 0 {
		body["labels"] = in.Labels
	}
	if len(in.CustomFields) > 0 {
		body["customFields"] = in.CustomFields
	}
	return body
}

func (c *client) GetTestCase(ctx context.Context, key string) (*domain.TestCase, error) {
	var w wireTestCase
	if err := c.do(ctx, http.MethodGet, "testcases/"+escapeKey(key), nil, nil, &w); err != nil {
		return nil, fmt.Errorf("getting test case %s: %w", key, err)
	}
	tc := w.toDomain()
	return &tc, nil
}

func (c *client) SearchTestCases(ctx context.Context, q TestCaseQuery) (*Page[domain.TestCase], error) {
	var page Page[wireTestCase]
	if err := c.do(ctx, http.MethodGet, "testcases", q.params(c.cfg.PageSize), nil, &page); err != nil {
		return nil, fmt.Errorf("searching test cases: %w", err)
	}
	return mapPage(&page, wireTestCase.toDomain), nil
}

func (c *client) CreateTestCase(ctx context.Context, in TestCaseInput) (*Created, error) {
	var created Created
	if err := c.do(ctx, http.MethodPost, "testcases", nil, in.payload(), &created); err != nil {
		return nil, fmt.Errorf("creating test case: %w", err)
	}
	return &created, nil
}

func (c *client) UpdateTestCase(ctx context.Context, key string, in TestCaseInput) error {
	if err := c.do(ctx, http.MethodPut, "testcases/"+escapeKey(key), nil, in.payload(), nil); err != nil {
		return fmt.Errorf("updating test case %s: %w", key, err)
	}
	return nil
}

func (c *client) DeleteTestCase(ctx context.Context, key string) error {
	if err := c.do(ctx, http.MethodDelete, "testcases/"+escapeKey(key), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting test case %s: %w", key, err)
	}
	return nil
}

func (c *client) GetTestSteps(ctx context.Context, key string) ([]domain.TestStep, error) {
	params := pageParams(url.Values{}, 0, MaxPageSize, MaxPageSize)
	var page Page[wireTestStep]
	if err := c.do(ctx, http.MethodGet, "testcases/"+escapeKey(key)+"/teststeps", params, nil, &page); err != nil {
		return nil, fmt.Errorf("getting steps for %s: %w", key, err)
	}
	steps := make([]domain.TestStep, 0, len(page.Values))
	for _, v := range page.Values {
		if v.Inline != nil {
			steps = append(steps, *v.Inline)
		}
	}
	return steps, nil
}

func (c *client) SetTestSteps(ctx context.Context, key string, steps []domain.TestStep) error {
	items := make([]wireTestStep, len(steps))
	for i := range steps {
		step := steps[i]
		items[i] = wireTestStep{Inline: &step}
	}
	body := map[string]any{
		"mode":  "OVERWRITE",
		"items": items,
	}
	if err := c.do(ctx, http.MethodPost, "testcases/"+escapeKey(key)+"/teststeps", nil, body, nil); err != nil {
		return fmt.Errorf("setting steps for %s: %w", key, err)
	}
	return nil
}

func (c *client) GetTestCaseLinks(ctx context.Context, key string) ([]domain.IssueLink, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "testcases/"+escapeKey(key)+"/links/issues", nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("getting links for %s: %w", key, err)
	}
	links, err := decodeIssueLinks(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: links for %s: %v", ErrInvalidResponse, key, err)
	}
	return links, nil
}

func (c *client) LinkTestCaseToIssue(ctx context.Context, key, issueKey string) error {
	body := map[string]any{"issueKey": issueKey}
	if err := c.do(ctx, http.MethodPost, "testcases/"+escapeKey(key)+"/links/issues", nil, body, nil); err != nil {
		return fmt.Errorf("linking %s to %s: %w", key, issueKey, err)
	}
	return nil
}

// decodeIssueLinks accepts either a bare array of links or the
// {"issues": [...]} envelope.
func decodeIssueLinks(raw json.RawMessage) ([]domain.IssueLink, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var links []domain.IssueLink
		err := json.Unmarshal(raw, &links)
		return links, err
	}
	var env wireIssueLinks
	err := json.Unmarshal(raw, &env)
	return env.Issues, err
}
