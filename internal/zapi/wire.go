package zapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
)

// ref decodes the reference shapes the API uses interchangeably: a bare
// string ("High"), or an object such as {"id": 1, "name": "High"} or
// {"key": "PROJ", "self": "..."}.
type ref struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Self string `json:"self"`
}

func (r *ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.Name)
	}
	type plain ref
	return json.Unmarshal(data, (*plain)(r))
}

// label returns the first non-empty human-readable identifier.
func (r ref) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Key
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// canonical maps a server-side name onto the closed table when it matches,
// keeping unknown names (custom project statuses) as-is.
func canonicalPriority(name string) domain.TestCasePriority {
	if p, err := domain.ParseTestCasePriority(name); err == nil {
		return p
	}
	return domain.TestCasePriority(name)
}

func canonicalCaseStatus(name string) domain.TestCaseStatus {
	if s, err := domain.ParseTestCaseStatus(name); err == nil {
		return s
	}
	return domain.TestCaseStatus(name)
}

func canonicalCycleStatus(name string) domain.TestCycleStatus {
	if s, err := domain.ParseTestCycleStatus(name); err == nil {
		return s
	}
	return domain.TestCycleStatus(name)
}

func canonicalExecutionStatus(name string) domain.TestExecutionStatus {
	if s, err := domain.ParseTestExecutionStatus(name); err == nil {
		return s
	}
	return domain.TestExecutionStatus(name)
}

type wireTestCase struct {
	Key          string         `json:"key"`
	Name         string         `json:"name"`
	Objective    string         `json:"objective"`
	Precondition string         `json:"precondition"`
	Priority     ref            `json:"priority"`
	PriorityName string         `json:"priorityName"`
	Status       ref            `json:"status"`
	StatusName   string         `json:"statusName"`
	Project      ref            `json:"project"`
	ProjectKey   string         `json:"projectKey"`
	Folder       *ref           `json:"folder"`
	FolderID     *int           `json:"folderId"`
	Labels       []string       `json:"labels"`
	CustomFields map[string]any `json:"customFields"`
	CreatedOn    *time.Time     `json:"createdOn"`
	UpdatedOn    *time.Time     `json:"updatedOn"`
}

func (w wireTestCase) toDomain() domain.TestCase {
	tc := domain.TestCase{
		Key:          w.Key,
		Name:         w.Name,
		Objective:    w.Objective,
		Precondition: w.Precondition,
		Priority:     canonicalPriority(firstNonEmpty(w.PriorityName, w.Priority.label())),
		Status:       canonicalCaseStatus(firstNonEmpty(w.StatusName, w.Status.label())),
		ProjectKey:   firstNonEmpty(w.ProjectKey, w.Project.Key),
		FolderID:     w.FolderID,
		Labels:       w.Labels,
		CustomFields: w.CustomFields,
		CreatedOn:    w.CreatedOn,
		UpdatedOn:    w.UpdatedOn,
	}
	if tc.FolderID == nil && w.Folder != nil && w.Folder.ID != 0 {
		id := w.Folder.ID
		tc.FolderID = &id
	}
	if tc.ProjectKey == "" {
		tc.ProjectKey, _ = domain.ProjectKeyFromTestCaseKey(w.Key)
	}
	return tc
}

type wireTestCycle struct {
	Key              string     `json:"key"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Project          ref        `json:"project"`
	ProjectKey       string     `json:"projectKey"`
	Status           ref        `json:"status"`
	StatusName       string     `json:"statusName"`
	Folder           *ref       `json:"folder"`
	FolderID         *int       `json:"folderId"`
	PlannedStartDate *time.Time `json:"plannedStartDate"`
	PlannedEndDate   *time.Time `json:"plannedEndDate"`
}

func (w wireTestCycle) toDomain() domain.TestCycle {
	tc := domain.TestCycle{
		Key:              w.Key,
		Name:             w.Name,
		Description:      w.Description,
		ProjectKey:       firstNonEmpty(w.ProjectKey, w.Project.Key),
		Status:           canonicalCycleStatus(firstNonEmpty(w.StatusName, w.Status.label())),
		FolderID:         w.FolderID,
		PlannedStartDate: w.PlannedStartDate,
		PlannedEndDate:   w.PlannedEndDate,
	}
	if tc.FolderID == nil && w.Folder != nil && w.Folder.ID != 0 {
		id := w.Folder.ID
		tc.FolderID = &id
	}
	if tc.ProjectKey == "" {
		tc.ProjectKey, _ = domain.ProjectKeyFromTestCaseKey(w.Key)
	}
	return tc
}

type wireTestExecution struct {
	Key                 string `json:"key"`
	Project             ref    `json:"project"`
	ProjectKey          string `json:"projectKey"`
	TestCase            ref    `json:"testCase"`
	TestCaseKey         string `json:"testCaseKey"`
	TestCycle           ref    `json:"testCycle"`
	TestCycleKey        string `json:"testCycleKey"`
	Status              ref    `json:"status"`
	StatusName          string `json:"statusName"`
	TestExecutionStatus ref    `json:"testExecutionStatus"`
	Environment         ref    `json:"environment"`
	EnvironmentName     string `json:"environmentName"`
	AssignedToID        string `json:"assignedToId"`
	ExecutedByID        string `json:"executedById"`
	ExecutionTime       *int   `json:"executionTime"`
	Comment             string `json:"comment"`
}

func (w wireTestExecution) toDomain() domain.TestExecution {
	te := domain.TestExecution{
		Key:          w.Key,
		ProjectKey:   firstNonEmpty(w.ProjectKey, w.Project.Key),
		TestCaseKey:  firstNonEmpty(w.TestCaseKey, w.TestCase.Key),
		TestCycleKey: firstNonEmpty(w.TestCycleKey, w.TestCycle.Key),
		Status: canonicalExecutionStatus(firstNonEmpty(
			w.StatusName, w.Status.label(), w.TestExecutionStatus.label())),
		Environment:     firstNonEmpty(w.EnvironmentName, w.Environment.label()),
		AssignedTo:      w.AssignedToID,
		ExecutedBy:      w.ExecutedByID,
		ExecutionTimeMs: w.ExecutionTime,
		Comment:         w.Comment,
	}
	if te.ProjectKey == "" {
		te.ProjectKey, _ = domain.ProjectKeyFromTestCaseKey(firstNonEmpty(te.TestCaseKey, w.Key))
	}
	return te
}

type wireTestStep struct {
	Inline *domain.TestStep `json:"inline"`
}

type wireIssueLinks struct {
	Issues []domain.IssueLink `json:"issues"`
}
