package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestCaseFields_ExactOrder(t *testing.T) {
	assert.Equal(t, []string{
		"key", "name", "objective", "precondition", "priority",
		"status", "projectKey", "createdOn", "updatedOn",
	}, DefaultTestCaseFields())
}

func TestDefaultTestCaseFields_Unique(t *testing.T) {
	fields := DefaultTestCaseFields()
	_, err := NewTestCaseFieldSet(fields...)
	require.NoError(t, err)
	assert.Equal(t, 9, DefaultTestCaseFieldSet().Len())
}

func TestNewTestCaseFieldSet_RejectsDuplicates(t *testing.T) {
	_, err := NewTestCaseFieldSet("key", "name", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate field "key"`)
}

func TestNewTestCaseFieldSet_RejectsEmpty(t *testing.T) {
	_, err := NewTestCaseFieldSet()
	assert.Error(t, err)

	_, err = NewTestCaseFieldSet("key", " ")
	assert.Error(t, err)
}

func TestParseTestCaseFieldSet(t *testing.T) {
	fs, err := ParseTestCaseFieldSet("key, status ,priority")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "status", "priority"}, fs.Fields())
	assert.True(t, fs.Contains("status"))
	assert.False(t, fs.Contains("name"))

	def, err := ParseTestCaseFieldSet("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTestCaseFields(), def.Fields())
}

func TestFieldSet_FieldsReturnsCopy(t *testing.T) {
	fs := DefaultTestCaseFieldSet()
	got := fs.Fields()
	got[0] = "mutated"
	assert.Equal(t, "key", fs.Fields()[0])
}

func TestFieldSet_ProjectKeepsSetOrder(t *testing.T) {
	fs, err := NewTestCaseFieldSet("status", "key", "missing")
	require.NoError(t, err)

	got := fs.Project(map[string]any{"key": "PROJ-T1", "status": "Draft", "name": "ignored"})
	require.Len(t, got, 3)
	assert.Equal(t, FieldValue{Name: "status", Value: "Draft"}, got[0])
	assert.Equal(t, FieldValue{Name: "key", Value: "PROJ-T1"}, got[1])
	assert.Equal(t, "missing", got[2].Name)
	assert.Nil(t, got[2].Value)
}

func TestFieldSet_RowRendersReferenceObjects(t *testing.T) {
	fs, err := NewTestCaseFieldSet("key", "priority", "folderId", "labels")
	require.NoError(t, err)

	row := fs.Row(map[string]any{
		"key":      "PROJ-T7",
		"priority": map[string]any{"id": float64(3), "name": "High"},
		"folderId": float64(42),
		"labels":   []any{"smoke", "api"},
	})
	assert.Equal(t, []string{"PROJ-T7", "High", "42", "smoke, api"}, row)
}

func TestTestCase_RecordProjectsDefaultFields(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tc := &TestCase{
		Key:        "PROJ-T1",
		Name:       "Login works",
		Objective:  "Verify login",
		Priority:   PriorityHigh,
		Status:     CaseApproved,
		ProjectKey: "PROJ",
		CreatedOn:  &created,
	}

	row := DefaultTestCaseFieldSet().Row(tc.Record())
	assert.Equal(t, []string{
		"PROJ-T1", "Login works", "Verify login", "", "High",
		"Approved", "PROJ", "2026-03-01T09:30:00Z", "",
	}, row)
}

func TestTestCase_RecordCustomFields(t *testing.T) {
	tc := &TestCase{Key: "PROJ-T2", CustomFields: map[string]any{"component": "auth"}}
	assert.Equal(t, "auth", tc.Record()["customFields.component"])
}

func TestProjectKeyFromTestCaseKey(t *testing.T) {
	key, err := ProjectKeyFromTestCaseKey("PROJ-T123")
	require.NoError(t, err)
	assert.Equal(t, "PROJ", key)

	_, err = ProjectKeyFromTestCaseKey("T123")
	assert.Error(t, err)
	_, err = ProjectKeyFromTestCaseKey("-T1")
	assert.Error(t, err)
}
