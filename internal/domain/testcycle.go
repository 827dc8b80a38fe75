package domain

import "time"

type TestCycle struct {
	Key              string          `json:"key"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	ProjectKey       string          `json:"projectKey"`
	Status           TestCycleStatus `json:"status,omitempty"`
	FolderID         *int            `json:"folderId,omitempty"`
	PlannedStartDate *time.Time      `json:"plannedStartDate,omitempty"`
	PlannedEndDate   *time.Time      `json:"plannedEndDate,omitempty"`
}
