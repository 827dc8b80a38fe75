package service

import (
	"testing"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseRequest_NormalisesEnums(t *testing.T) {
	in, err := TestCaseRequest{ProjectKey: " PROJ ", Name: "Login", Priority: "high", Status: "APPROVED"}.toInput(true)
	require.NoError(t, err)
	assert.Equal(t, "PROJ", in.ProjectKey)
	assert.Equal(t, domain.PriorityHigh, in.Priority)
	assert.Equal(t, domain.CaseApproved, in.Status)
}

func TestTestCaseRequest_CollectsAllErrors(t *testing.T) {
	folder := 0
	_, err := TestCaseRequest{Priority: "Normal", Status: "Done", FolderID: &folder}.toInput(true)
	require.Error(t, err)

	var ve *validation.ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := map[string]string{}
	for _, e := range ve.Errors {
		fields[e.Field] = e.Message
	}
	assert.Contains(t, fields, "projectKey")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "folderId")
	assert.Equal(t, "must be one of: High, Medium, Low", fields["priority"])
	assert.Equal(t, "must be one of: Draft, Approved, Deprecated", fields["status"])
}

func TestTestCaseRequest_UpdateNeedsNoName(t *testing.T) {
	in, err := TestCaseRequest{Status: "deprecated"}.toInput(false)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseDeprecated, in.Status)
	assert.Empty(t, in.Name)
}

func TestTestCycleRequest_Dates(t *testing.T) {
	in, err := TestCycleRequest{ProjectKey: "PROJ", Name: "Sprint", PlannedStartDate: "2026-03-01", PlannedEndDate: "2026-03-14", Status: "in progress"}.toInput(true)
	require.NoError(t, err)
	require.NotNil(t, in.PlannedStartDate)
	assert.Equal(t, 14, in.PlannedEndDate.Day())
	assert.Equal(t, domain.CycleInProgress, in.Status)

	_, err = TestCycleRequest{ProjectKey: "PROJ", Name: "Sprint", PlannedStartDate: "2026-03-14", PlannedEndDate: "2026-03-01"}.toInput(true)
	assert.ErrorContains(t, err, "plannedStartDate: must not be after the end date")

	_, err = TestCycleRequest{ProjectKey: "PROJ", Name: "Sprint", PlannedEndDate: "14/03/2026"}.toInput(true)
	assert.ErrorContains(t, err, "plannedEndDate")
}

func TestExecutionRequest_DerivesProject(t *testing.T) {
	in, err := ExecutionRequest{TestCaseKey: "PROJ-T7", Status: "not executed"}.toInput(true)
	require.NoError(t, err)
	assert.Equal(t, "PROJ", in.ProjectKey)
	assert.Equal(t, domain.ExecutionNotExecuted, in.Status)
}

func TestRequests_CarryCustomFields(t *testing.T) {
	custom := map[string]any{"Build": "1.4.2"}

	cycle, err := TestCycleRequest{ProjectKey: "PROJ", Name: "Sprint", CustomFields: custom}.toInput(true)
	require.NoError(t, err)
	assert.Equal(t, custom, cycle.CustomFields)

	exec, err := ExecutionRequest{TestCaseKey: "PROJ-T1", Status: "Pass", CustomFields: custom}.toInput(true)
	require.NoError(t, err)
	assert.Equal(t, custom, exec.CustomFields)
}

func TestExecutionRequest_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		req   ExecutionRequest
		field string
	}{
		{"missing status", ExecutionRequest{TestCaseKey: "PROJ-T1"}, "status"},
		{"cycle status", ExecutionRequest{TestCaseKey: "PROJ-T1", Status: "Done"}, "status"},
		{"legacy unexecuted", ExecutionRequest{TestCaseKey: "PROJ-T1", Status: "UNEXECUTED"}, "status"},
		{"bad key", ExecutionRequest{TestCaseKey: "T1", Status: "Pass"}, "testCaseKey"},
		{"negative time", ExecutionRequest{TestCaseKey: "PROJ-T1", Status: "Pass", ExecutionTimeMs: intPtr(-5)}, "executionTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.toInput(true)
			var ve *validation.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func intPtr(v int) *int { return &v }
