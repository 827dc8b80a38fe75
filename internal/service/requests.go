package service

import (
	"strings"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/validation"
	"github.com/alexanderramin/zscale/internal/zapi"
)

const dateLayout = "2006-01-02"

// TestCaseRequest is user input for creating or updating a test case.
// Enumerated fields are matched case-insensitively against the closed tables.
type TestCaseRequest struct {
	ProjectKey   string
	Name         string
	Objective    string
	Precondition string
	Priority     string
	Status       string
	FolderID     *int
	Labels       []string
	CustomFields map[string]any
}

func (r TestCaseRequest) toInput(create bool) (zapi.TestCaseInput, error) {
	ve := &validation.ValidationErrors{}
	if create {
		validation.RequireField(ve, "projectKey", r.ProjectKey)
		validation.RequireField(ve, "name", r.Name)
	}
	validation.ValidatePositiveInt(ve, "folderId", r.FolderID)
	in := zapi.TestCaseInput{
		ProjectKey:   strings.TrimSpace(r.ProjectKey),
		Name:         strings.TrimSpace(r.Name),
		Objective:    r.Objective,
		Precondition: r.Precondition,
		Priority:     enumField(ve, "priority", r.Priority, domain.ParseTestCasePriority, domain.TestCasePriorityNames()),
		Status:       enumField(ve, "status", r.Status, domain.ParseTestCaseStatus, domain.TestCaseStatusNames()),
		FolderID:     r.FolderID,
		Labels:       r.Labels,
		CustomFields: r.CustomFields,
	}
	return in, ve.Err()
}

// TestCycleRequest is user input for creating or updating a test cycle.
// Planned dates use YYYY-MM-DD.
type TestCycleRequest struct {
	ProjectKey       string
	Name             string
	Description      string
	Status           string
	FolderID         *int
	PlannedStartDate string
	PlannedEndDate   string
	CustomFields     map[string]any
}

func (r TestCycleRequest) toInput(create bool) (zapi.TestCycleInput, error) {
	ve := &validation.ValidationErrors{}
	if create {
		validation.RequireField(ve, "projectKey", r.ProjectKey)
		validation.RequireField(ve, "name", r.Name)
	}
	validation.ValidatePositiveInt(ve, "folderId", r.FolderID)
	validation.ValidateDate(ve, "plannedStartDate", r.PlannedStartDate)
	validation.ValidateDate(ve, "plannedEndDate", r.PlannedEndDate)
	validation.ValidateDateOrder(ve, "plannedStartDate", r.PlannedStartDate, r.PlannedEndDate)
	in := zapi.TestCycleInput{
		ProjectKey:       strings.TrimSpace(r.ProjectKey),
		Name:             strings.TrimSpace(r.Name),
		Description:      r.Description,
		Status:           enumField(ve, "status", r.Status, domain.ParseTestCycleStatus, domain.TestCycleStatusNames()),
		FolderID:         r.FolderID,
		PlannedStartDate: parseDate(r.PlannedStartDate),
		PlannedEndDate:   parseDate(r.PlannedEndDate),
		CustomFields:     r.CustomFields,
	}
	return in, ve.Err()
}

// ExecutionRequest is user input for recording or updating a test execution.
type ExecutionRequest struct {
	ProjectKey      string
	TestCaseKey     string
	TestCycleKey    string
	Status          string
	Environment     string
	AssignedTo      string
	ExecutedBy      string
	ExecutionTimeMs *int
	Comment         string
	CustomFields    map[string]any
}

func (r ExecutionRequest) toInput(create bool) (zapi.ExecutionInput, error) {
	ve := &validation.ValidationErrors{}
	projectKey := strings.TrimSpace(r.ProjectKey)
	if create {
		validation.RequireField(ve, "testCaseKey", r.TestCaseKey)
		validation.RequireField(ve, "status", r.Status)
		if projectKey == "" && r.TestCaseKey != "" {
			if derived, err := domain.ProjectKeyFromTestCaseKey(r.TestCaseKey); err == nil {
				projectKey = derived
			} else {
				ve.Add("testCaseKey", err.Error())
			}
		}
	}
	validation.ValidateNonNegativeInt(ve, "executionTime", r.ExecutionTimeMs)
	in := zapi.ExecutionInput{
		ProjectKey:      projectKey,
		TestCaseKey:     strings.TrimSpace(r.TestCaseKey),
		TestCycleKey:    strings.TrimSpace(r.TestCycleKey),
		Status:          enumField(ve, "status", r.Status, domain.ParseTestExecutionStatus, domain.TestExecutionStatusNames()),
		Environment:     r.Environment,
		AssignedTo:      r.AssignedTo,
		ExecutedBy:      r.ExecutedBy,
		ExecutionTimeMs: r.ExecutionTimeMs,
		Comment:         r.Comment,
		CustomFields:    r.CustomFields,
	}
	return in, ve.Err()
}

// SummaryRequest scopes an execution summary to a project or a cycle.
// Cached reads from the local database instead of the API.
type SummaryRequest struct {
	ProjectKey   string
	TestCycleKey string
	Cached       bool
}

// CacheFilter selects cached test cases. KeyGlob uses doublestar syntax,
// e.g. "PROJ-T1*" or "{PROJ,OPS}-T*".
type CacheFilter struct {
	ProjectKey string
	KeyGlob    string
	Priority   string
	Status     string
}

// enumField resolves an optional enumerated input to its canonical value,
// recording a validation error when it is not a member.
func enumField[T ~string](ve *validation.ValidationErrors, field, value string, parse func(string) (T, error), allowed []string) T {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	v, err := parse(value)
	if err != nil {
		validation.ValidateEnum(ve, field, value, allowed)
		return ""
	}
	return v
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
