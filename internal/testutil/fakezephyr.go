package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/zapi"
)

// FakeZephyr is an in-memory Zephyr Scale API served over httptest. It
// understands the subset of endpoints the client uses, with offset
// pagination and project filters.
type FakeZephyr struct {
	Server *httptest.Server

	mu         sync.Mutex
	cases      map[string]*domain.TestCase
	cycles     map[string]*domain.TestCycle
	executions map[string]*domain.TestExecution
	steps      map[string][]domain.TestStep
	links      map[string][]domain.IssueLink
	seq        int
	failures   map[string]int
	requests   []string
}

// NewFakeZephyr starts a fake server that is closed with the test.
func NewFakeZephyr(t *testing.T) *FakeZephyr {
	t.Helper()
	f := &FakeZephyr{
		cases:      map[string]*domain.TestCase{},
		cycles:     map[string]*domain.TestCycle{},
		executions: map[string]*domain.TestExecution{},
		steps:      map[string][]domain.TestStep{},
		links:      map[string][]domain.IssueLink{},
		failures:   map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns a token-auth client configuration pointed at the fake.
func (f *FakeZephyr) Config() zapi.Config {
	cfg := zapi.DefaultConfig()
	cfg.AuthMode = zapi.AuthToken
	cfg.APIToken = "test-token"
	cfg.BaseURL = f.Server.URL + "/v2"
	cfg.RetryBackoffMs = 1
	cfg.TimeoutMs = 2000
	return cfg
}

// Client returns a client for the fake.
func (f *FakeZephyr) Client() zapi.Client {
	return zapi.NewClient(f.Config(), zapi.NoopObserver{})
}

func (f *FakeZephyr) AddTestCase(tc *domain.TestCase) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *tc
	f.cases[tc.Key] = &cp
}

func (f *FakeZephyr) AddTestCycle(tc *domain.TestCycle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *tc
	f.cycles[tc.Key] = &cp
}

func (f *FakeZephyr) AddTestExecution(te *domain.TestExecution) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *te
	f.executions[te.Key] = &cp
}

func (f *FakeZephyr) TestCase(key string) (*domain.TestCase, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tc, ok := f.cases[key]
	if !ok {
		return nil, false
	}
	cp := *tc
	return &cp, true
}

func (f *FakeZephyr) TestCycle(key string) (*domain.TestCycle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tc, ok := f.cycles[key]
	if !ok {
		return nil, false
	}
	cp := *tc
	return &cp, true
}

func (f *FakeZephyr) TestExecution(key string) (*domain.TestExecution, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	te, ok := f.executions[key]
	if !ok {
		return nil, false
	}
	cp := *te
	return &cp, true
}

func (f *FakeZephyr) Steps(key string) []domain.TestStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TestStep(nil), f.steps[key]...)
}

func (f *FakeZephyr) Links(key string) []domain.IssueLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.IssueLink(nil), f.links[key]...)
}

// FailNext makes the next n requests whose path contains substr answer 503.
func (f *FakeZephyr) FailNext(substr string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[substr] = n
}

// Requests lists "METHOD path" for every request received.
func (f *FakeZephyr) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeZephyr) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	for substr, n := range f.failures {
		if n > 0 && strings.Contains(r.URL.Path, substr) {
			f.failures[substr] = n - 1
			writeFake(w, http.StatusServiceUnavailable, map[string]any{"message": "temporarily unavailable"})
			return
		}
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeFake(w, http.StatusUnauthorized, map[string]any{"message": "missing token"})
		return
	}

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/v2"), "/"), "/")
	switch {
	case parts[0] == "healthcheck":
		w.WriteHeader(http.StatusOK)
	case parts[0] == "testcases":
		f.serveTestCases(w, r, parts[1:])
	case parts[0] == "testcycles":
		f.serveTestCycles(w, r, parts[1:])
	case parts[0] == "testexecutions":
		f.serveTestExecutions(w, r, parts[1:])
	default:
		notFound(w)
	}
}

func (f *FakeZephyr) serveTestCases(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		project := r.URL.Query().Get("projectKey")
		var values []any
		for _, key := range sortedKeys(f.cases) {
			tc := f.cases[key]
			if project == "" || tc.ProjectKey == project {
				values = append(values, renderTestCase(tc))
			}
		}
		writePage(w, r, values)
	case len(rest) == 0 && r.Method == http.MethodPost:
		body := decodeBody(r)
		project := str(body, "projectKey")
		f.seq++
		tc := &domain.TestCase{
			Key:        fmt.Sprintf("%s-T%d", project, f.seq),
			ProjectKey: project,
		}
		applyTestCase(tc, body)
		f.cases[tc.Key] = tc
		writeFake(w, http.StatusCreated, map[string]any{"id": f.seq, "key": tc.Key})
	case len(rest) >= 1:
		tc, ok := f.cases[rest[0]]
		if !ok {
			notFound(w)
			return
		}
		f.serveTestCaseItem(w, r, tc, rest[1:])
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeZephyr) serveTestCaseItem(w http.ResponseWriter, r *http.Request, tc *domain.TestCase, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		writeFake(w, http.StatusOK, renderTestCase(tc))
	case len(rest) == 0 && r.Method == http.MethodPut:
		applyTestCase(tc, decodeBody(r))
		w.WriteHeader(http.StatusOK)
	case len(rest) == 0 && r.Method == http.MethodDelete:
		delete(f.cases, tc.Key)
		w.WriteHeader(http.StatusNoContent)
	case len(rest) == 0:
		w.WriteHeader(http.StatusMethodNotAllowed)
	case rest[0] == "teststeps" && r.Method == http.MethodGet:
		var values []any
		for _, st := range f.steps[tc.Key] {
			values = append(values, map[string]any{"inline": st})
		}
		writePage(w, r, values)
	case rest[0] == "teststeps" && r.Method == http.MethodPost:
		var body struct {
			Mode  string `json:"mode"`
			Items []struct {
				Inline domain.TestStep `json:"inline"`
			} `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		var steps []domain.TestStep
		if body.Mode != "OVERWRITE" {
			steps = f.steps[tc.Key]
		}
		for _, it := range body.Items {
			steps = append(steps, it.Inline)
		}
		f.steps[tc.Key] = steps
		w.WriteHeader(http.StatusCreated)
	case rest[0] == "links" && r.Method == http.MethodGet:
		writeFake(w, http.StatusOK, f.links[tc.Key])
	case rest[0] == "links" && r.Method == http.MethodPost:
		issue := str(decodeBody(r), "issueKey")
		f.links[tc.Key] = append(f.links[tc.Key], domain.IssueLink{IssueKey: issue, IssueID: len(f.links[tc.Key]) + 1000})
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeZephyr) serveTestCycles(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		project := r.URL.Query().Get("projectKey")
		var values []any
		for _, key := range sortedKeys(f.cycles) {
			tc := f.cycles[key]
			if project == "" || tc.ProjectKey == project {
				values = append(values, tc)
			}
		}
		writePage(w, r, values)
	case len(rest) == 0 && r.Method == http.MethodPost:
		body := decodeBody(r)
		project := str(body, "projectKey")
		f.seq++
		tc := &domain.TestCycle{Key: fmt.Sprintf("%s-R%d", project, f.seq), ProjectKey: project}
		applyTestCycle(tc, body)
		f.cycles[tc.Key] = tc
		writeFake(w, http.StatusCreated, map[string]any{"id": f.seq, "key": tc.Key})
	case len(rest) >= 1:
		tc, ok := f.cycles[rest[0]]
		if !ok {
			notFound(w)
			return
		}
		switch {
		case len(rest) == 1 && r.Method == http.MethodGet:
			writeFake(w, http.StatusOK, tc)
		case len(rest) == 1 && r.Method == http.MethodPut:
			applyTestCycle(tc, decodeBody(r))
			w.WriteHeader(http.StatusOK)
		case len(rest) == 1 && r.Method == http.MethodDelete:
			delete(f.cycles, tc.Key)
			w.WriteHeader(http.StatusNoContent)
		case len(rest) == 1:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case rest[1] == "links" && r.Method == http.MethodPost:
			issue := str(decodeBody(r), "issueKey")
			f.links[tc.Key] = append(f.links[tc.Key], domain.IssueLink{IssueKey: issue})
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeZephyr) serveTestExecutions(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		q := r.URL.Query()
		var values []any
		for _, key := range sortedKeys(f.executions) {
			te := f.executions[key]
			if p := q.Get("projectKey"); p != "" && te.ProjectKey != p {
				continue
			}
			if c := q.Get("testCycle"); c != "" && te.TestCycleKey != c {
				continue
			}
			if c := q.Get("testCase"); c != "" && te.TestCaseKey != c {
				continue
			}
			values = append(values, renderTestExecution(te))
		}
		writePage(w, r, values)
	case len(rest) == 0 && r.Method == http.MethodPost:
		body := decodeBody(r)
		project := str(body, "projectKey")
		if project == "" || str(body, "testCaseKey") == "" || str(body, "statusName") == "" {
			writeFake(w, http.StatusBadRequest, map[string]any{"message": "projectKey, testCaseKey and statusName are required"})
			return
		}
		f.seq++
		te := &domain.TestExecution{Key: fmt.Sprintf("%s-E%d", project, f.seq), ProjectKey: project}
		applyTestExecution(te, body)
		f.executions[te.Key] = te
		writeFake(w, http.StatusCreated, map[string]any{"id": f.seq, "key": te.Key})
	case len(rest) == 1:
		te, ok := f.executions[rest[0]]
		if !ok {
			notFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeFake(w, http.StatusOK, renderTestExecution(te))
		case http.MethodPut:
			applyTestExecution(te, decodeBody(r))
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			delete(f.executions, te.Key)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// renderTestCase uses the reference-object shape of the real API.
func renderTestCase(tc *domain.TestCase) map[string]any {
	out := map[string]any{
		"key":          tc.Key,
		"name":         tc.Name,
		"objective":    tc.Objective,
		"precondition": tc.Precondition,
		"project":      map[string]any{"key": tc.ProjectKey},
		"priority":     map[string]any{"name": string(tc.Priority)},
		"status":       map[string]any{"name": string(tc.Status)},
		"labels":       tc.Labels,
		"customFields": tc.CustomFields,
	}
	if tc.FolderID != nil {
		out["folder"] = map[string]any{"id": *tc.FolderID}
	}
	if tc.CreatedOn != nil {
		out["createdOn"] = tc.CreatedOn
	}
	if tc.UpdatedOn != nil {
		out["updatedOn"] = tc.UpdatedOn
	}
	return out
}

func renderTestExecution(te *domain.TestExecution) map[string]any {
	out := map[string]any{
		"key":                 te.Key,
		"project":             map[string]any{"key": te.ProjectKey},
		"testCase":            map[string]any{"key": te.TestCaseKey},
		"testExecutionStatus": map[string]any{"name": string(te.Status)},
		"environmentName":     te.Environment,
		"assignedToId":        te.AssignedTo,
		"executedById":        te.ExecutedBy,
		"comment":             te.Comment,
	}
	if te.TestCycleKey != "" {
		out["testCycle"] = map[string]any{"key": te.TestCycleKey}
	}
	if te.ExecutionTimeMs != nil {
		out["executionTime"] = *te.ExecutionTimeMs
	}
	return out
}

func applyTestCase(tc *domain.TestCase, body map[string]any) {
	if v, ok := body["name"].(string); ok {
		tc.Name = v
	}
	if v, ok := body["objective"].(string); ok {
		tc.Objective = v
	}
	if v, ok := body["precondition"].(string); ok {
		tc.Precondition = v
	}
	if v, ok := body["priorityName"].(string); ok {
		tc.Priority = domain.TestCasePriority(v)
	}
	if v, ok := body["statusName"].(string); ok {
		tc.Status = domain.TestCaseStatus(v)
	}
	if v, ok := body["folderId"].(float64); ok {
		id := int(v)
		tc.FolderID = &id
	}
	if v, ok := body["labels"].([]any); ok {
		tc.Labels = nil
		for _, l := range v {
			tc.Labels = append(tc.Labels, fmt.Sprint(l))
		}
	}
	if v, ok := body["customFields"].(map[string]any); ok {
		tc.CustomFields = v
	}
}

func applyTestCycle(tc *domain.TestCycle, body map[string]any) {
	if v, ok := body["name"].(string); ok {
		tc.Name = v
	}
	if v, ok := body["description"].(string); ok {
		tc.Description = v
	}
	if v, ok := body["statusName"].(string); ok {
		tc.Status = domain.TestCycleStatus(v)
	}
}

func applyTestExecution(te *domain.TestExecution, body map[string]any) {
	if v, ok := body["testCaseKey"].(string); ok {
		te.TestCaseKey = v
	}
	if v, ok := body["testCycleKey"].(string); ok {
		te.TestCycleKey = v
	}
	if v, ok := body["statusName"].(string); ok {
		te.Status = domain.TestExecutionStatus(v)
	}
	if v, ok := body["environmentName"].(string); ok {
		te.Environment = v
	}
	if v, ok := body["comment"].(string); ok {
		te.Comment = v
	}
	if v, ok := body["executionTime"].(float64); ok {
		ms := int(v)
		te.ExecutionTimeMs = &ms
	}
}

func writePage(w http.ResponseWriter, r *http.Request, values []any) {
	startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
	if maxResults <= 0 {
		maxResults = 10
	}
	if startAt > len(values) {
		startAt = len(values)
	}
	end := startAt + maxResults
	if end > len(values) {
		end = len(values)
	}
	page := values[startAt:end]
	if page == nil {
		page = []any{}
	}
	writeFake(w, http.StatusOK, map[string]any{
		"startAt":    startAt,
		"maxResults": maxResults,
		"total":      len(values),
		"isLast":     end >= len(values),
		"values":     page,
	})
}

func writeFake(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeFake(w, http.StatusNotFound, map[string]any{"errorCode": 404, "message": "not found"})
}

func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func str(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

// sortedKeys orders keys naturally: shorter first, then lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
