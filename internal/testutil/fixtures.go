package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
)

var testKeyCounter atomic.Int64

func nextKey(projectKey, kind string) string {
	return fmt.Sprintf("%s-%s%d", projectKey, kind, testKeyCounter.Add(1))
}

func projectOf(key string) string {
	if i := strings.Index(key, "-"); i > 0 {
		return key[:i]
	}
	return key
}

// Test case options
type TestCaseOption func(*domain.TestCase)

func WithCaseKey(key string) TestCaseOption {
	return func(tc *domain.TestCase) {
		tc.Key = key
		tc.ProjectKey = projectOf(key)
	}
}

func WithPriority(p domain.TestCasePriority) TestCaseOption {
	return func(tc *domain.TestCase) {
		tc.Priority = p
	}
}

func WithCaseStatus(s domain.TestCaseStatus) TestCaseOption {
	return func(tc *domain.TestCase) {
		tc.Status = s
	}
}

func WithLabels(labels ...string) TestCaseOption {
	return func(tc *domain.TestCase) {
		tc.Labels = labels
	}
}

func WithCustomField(name string, value any) TestCaseOption {
	return func(tc *domain.TestCase) {
		if tc.CustomFields == nil {
			tc.CustomFields = map[string]any{}
		}
		tc.CustomFields[name] = value
	}
}

func NewTestCase(projectKey, name string, opts ...TestCaseOption) *domain.TestCase {
	now := time.Now().UTC().Truncate(time.Second)
	tc := &domain.TestCase{
		Key:        nextKey(projectKey, "T"),
		Name:       name,
		Priority:   domain.PriorityMedium,
		Status:     domain.CaseDraft,
		ProjectKey: projectKey,
		CreatedOn:  &now,
		UpdatedOn:  &now,
	}
	for _, o := range opts {
		o(tc)
	}
	return tc
}

// Test cycle options
type TestCycleOption func(*domain.TestCycle)

func WithCycleStatus(s domain.TestCycleStatus) TestCycleOption {
	return func(tc *domain.TestCycle) {
		tc.Status = s
	}
}

func WithPlannedDates(start, end time.Time) TestCycleOption {
	return func(tc *domain.TestCycle) {
		tc.PlannedStartDate = &start
		tc.PlannedEndDate = &end
	}
}

func NewTestCycle(projectKey, name string, opts ...TestCycleOption) *domain.TestCycle {
	tc := &domain.TestCycle{
		Key:        nextKey(projectKey, "R"),
		Name:       name,
		ProjectKey: projectKey,
		Status:     domain.CycleNotStarted,
	}
	for _, o := range opts {
		o(tc)
	}
	return tc
}

// Test execution options
type TestExecutionOption func(*domain.TestExecution)

func WithCycle(cycleKey string) TestExecutionOption {
	return func(te *domain.TestExecution) {
		te.TestCycleKey = cycleKey
	}
}

func WithEnvironment(env string) TestExecutionOption {
	return func(te *domain.TestExecution) {
		te.Environment = env
	}
}

func NewTestExecution(testCaseKey string, status domain.TestExecutionStatus, opts ...TestExecutionOption) *domain.TestExecution {
	project := projectOf(testCaseKey)
	te := &domain.TestExecution{
		Key:         nextKey(project, "E"),
		ProjectKey:  project,
		TestCaseKey: testCaseKey,
		Status:      status,
	}
	for _, o := range opts {
		o(te)
	}
	return te
}
