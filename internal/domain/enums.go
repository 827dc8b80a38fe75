package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownValue is returned when a string is not a member of a closed
// enumeration.
var ErrUnknownValue = errors.New("unknown value")

// TestExecutionStatus is the outcome recorded for a single test execution.
type TestExecutionStatus string

const (
	ExecutionPass        TestExecutionStatus = "Pass"
	ExecutionFail        TestExecutionStatus = "Fail"
	ExecutionBlocked     TestExecutionStatus = "Blocked"
	ExecutionNotExecuted TestExecutionStatus = "Not Executed"
	ExecutionInProgress  TestExecutionStatus = "In Progress"
)

type TestCasePriority string

const (
	PriorityHigh   TestCasePriority = "High"
	PriorityMedium TestCasePriority = "Medium"
	PriorityLow    TestCasePriority = "Low"
)

type TestCaseStatus string

const (
	CaseDraft      TestCaseStatus = "Draft"
	CaseApproved   TestCaseStatus = "Approved"
	CaseDeprecated TestCaseStatus = "Deprecated"
)

type TestCycleStatus string

const (
	CycleNotStarted TestCycleStatus = "Not Started"
	CycleInProgress TestCycleStatus = "In Progress"
	CycleDone       TestCycleStatus = "Done"
)

// The table accessors below build a new slice on every call, so callers are
// free to sort or modify the result.

// TestExecutionStatuses returns every execution status in display order.
func TestExecutionStatuses() []TestExecutionStatus {
	return []TestExecutionStatus{
		ExecutionPass,
		ExecutionFail,
		ExecutionBlocked,
		ExecutionNotExecuted,
		ExecutionInProgress,
	}
}

// TestCasePriorities returns every test case priority, highest first.
func TestCasePriorities() []TestCasePriority {
	return []TestCasePriority{PriorityHigh, PriorityMedium, PriorityLow}
}

// TestCaseStatuses returns every test case status in lifecycle order.
func TestCaseStatuses() []TestCaseStatus {
	return []TestCaseStatus{CaseDraft, CaseApproved, CaseDeprecated}
}

// TestCycleStatuses returns every test cycle status in lifecycle order.
func TestCycleStatuses() []TestCycleStatus {
	return []TestCycleStatus{CycleNotStarted, CycleInProgress, CycleDone}
}

func TestExecutionStatusNames() []string { return enumNames(TestExecutionStatuses()) }
func TestCasePriorityNames() []string    { return enumNames(TestCasePriorities()) }
func TestCaseStatusNames() []string      { return enumNames(TestCaseStatuses()) }
func TestCycleStatusNames() []string     { return enumNames(TestCycleStatuses()) }

func (s TestExecutionStatus) Valid() bool { return isMember(s, TestExecutionStatuses()) }
func (p TestCasePriority) Valid() bool    { return isMember(p, TestCasePriorities()) }
func (s TestCaseStatus) Valid() bool      { return isMember(s, TestCaseStatuses()) }
func (s TestCycleStatus) Valid() bool     { return isMember(s, TestCycleStatuses()) }

// ParseTestExecutionStatus resolves user input such as "not executed" to the
// canonical status. Matching ignores case and surrounding whitespace.
func ParseTestExecutionStatus(s string) (TestExecutionStatus, error) {
	return parseEnum("test execution status", s, TestExecutionStatuses())
}

func ParseTestCasePriority(s string) (TestCasePriority, error) {
	return parseEnum("test case priority", s, TestCasePriorities())
}

func ParseTestCaseStatus(s string) (TestCaseStatus, error) {
	return parseEnum("test case status", s, TestCaseStatuses())
}

func ParseTestCycleStatus(s string) (TestCycleStatus, error) {
	return parseEnum("test cycle status", s, TestCycleStatuses())
}

func parseEnum[T ~string](kind, input string, allowed []T) (T, error) {
	var zero T
	normalized := strings.Join(strings.Fields(input), " ")
	if normalized == "" {
		return zero, fmt.Errorf("%w: empty %s", ErrUnknownValue, kind)
	}

	fold := cases.Fold()
	want := fold.String(normalized)
	for _, v := range allowed {
		if fold.String(string(v)) == want {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w: %s %q (allowed: %s)",
		ErrUnknownValue, kind, input, strings.Join(enumNames(allowed), ", "))
}

func enumNames[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func isMember[T comparable](v T, values []T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
