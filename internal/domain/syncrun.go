package domain

import "time"

type SyncStatus string

const (
	SyncRunning   SyncStatus = "running"
	SyncSucceeded SyncStatus = "succeeded"
	SyncFailed    SyncStatus = "failed"
)

// SyncRun records one pull of a project into the local cache.
type SyncRun struct {
	ID             string     `json:"id"`
	ProjectKey     string     `json:"projectKey"`
	Status         SyncStatus `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	TestCases      int        `json:"testCases"`
	TestCycles     int        `json:"testCycles"`
	TestExecutions int        `json:"testExecutions"`
	Error          string     `json:"error,omitempty"`
}
