package domain

type TestExecution struct {
	Key             string              `json:"key"`
	ProjectKey      string              `json:"projectKey"`
	TestCaseKey     string              `json:"testCaseKey"`
	TestCycleKey    string              `json:"testCycleKey,omitempty"`
	Status          TestExecutionStatus `json:"status,omitempty"`
	Environment     string              `json:"environment,omitempty"`
	AssignedTo      string              `json:"assignedTo,omitempty"`
	ExecutedBy      string              `json:"executedBy,omitempty"`
	ExecutionTimeMs *int                `json:"executionTime,omitempty"`
	Comment         string              `json:"comment,omitempty"`
}

// ExecutionSummary counts executions per status.
type ExecutionSummary struct {
	Total    int                         `json:"total"`
	ByStatus map[TestExecutionStatus]int `json:"byStatus"`
	// Other counts executions whose status is outside the closed set, which
	// happens when a project defines custom statuses.
	Other int `json:"other"`
}

func NewExecutionSummary() *ExecutionSummary {
	s := &ExecutionSummary{ByStatus: make(map[TestExecutionStatus]int)}
	for _, st := range TestExecutionStatuses() {
		s.ByStatus[st] = 0
	}
	return s
}

func (s *ExecutionSummary) Add(status TestExecutionStatus) {
	s.Total++
	if status.Valid() {
		s.ByStatus[status]++
		return
	}
	s.Other++
}

// PassRate is the share of passed executions among executed ones (Pass, Fail
// and Blocked). Returns 0 when nothing has been executed.
func (s *ExecutionSummary) PassRate() float64 {
	executed := s.ByStatus[ExecutionPass] + s.ByStatus[ExecutionFail] + s.ByStatus[ExecutionBlocked]
	if executed == 0 {
		return 0
	}
	return float64(s.ByStatus[ExecutionPass]) / float64(executed)
}

// Summarize builds a summary over a list of executions.
func Summarize(executions []TestExecution) *ExecutionSummary {
	s := NewExecutionSummary()
	for _, e := range executions {
		s.Add(e.Status)
	}
	return s
}
