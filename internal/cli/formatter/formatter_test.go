package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/zscale/internal/domain"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"KEY", "NAME"}, [][]string{
		{"PROJ-T1", "Login"},
		{"PROJ-T22", StyleGreen.Render("Logout")},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	col := strings.Index(lines[0], "NAME")
	assert.Equal(t, col, strings.Index(lines[2], "Login"))
	assert.Equal(t, col, strings.Index(lines[3], "Logout"))
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	got := Truncate("a very long objective text", 10)
	assert.Equal(t, 10, lipgloss.Width(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
}

func TestFormatTestCaseList_ProjectsFields(t *testing.T) {
	fields, err := domain.NewTestCaseFieldSet("key", "priority", "labels")
	require.NoError(t, err)

	out := FormatTestCaseList([]*domain.TestCase{
		{Key: "PROJ-T1", Priority: domain.PriorityHigh, Labels: []string{"smoke"}},
	}, fields)

	assert.Contains(t, out, "TEST CASES (1)")
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "smoke")
	assert.NotContains(t, out, "OBJECTIVE")
}

func TestFormatTestCase(t *testing.T) {
	folder := 12
	out := FormatTestCase(&domain.TestCase{
		Key: "PROJ-T1", Name: "Login", ProjectKey: "PROJ", Status: domain.CaseApproved,
		FolderID: &folder, Objective: "User can sign in",
		CustomFields: map[string]any{"Component": map[string]any{"name": "web"}},
	})
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "Approved")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "OBJECTIVE")
	assert.Contains(t, out, "COMPONENT")
	assert.Contains(t, out, "web")
}

func TestFormatSteps(t *testing.T) {
	assert.Contains(t, FormatSteps("PROJ-T1", nil), "no test steps")
	out := FormatSteps("PROJ-T1", []domain.TestStep{{Description: "Open", ExpectedResult: "Shown"}})
	assert.Contains(t, out, "Open")
	assert.Contains(t, out, "Shown")
}

func TestFormatSummary(t *testing.T) {
	s := domain.Summarize([]domain.TestExecution{
		{Status: domain.ExecutionPass}, {Status: domain.ExecutionFail}, {Status: "Retest"},
	})
	out := FormatSummary("PROJ-R1", s)

	for _, st := range domain.TestExecutionStatusNames() {
		assert.Contains(t, out, st)
	}
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, "50.0%")
	assert.Less(t, strings.Index(out, "Pass"), strings.Index(out, "In Progress"), "statuses follow table order")
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "0s"},
		{1500, "1.5s"},
		{60000, "1m"},
		{93500, "1m 33.5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMillis(tt.ms))
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Apr 1, 2026 12:00", HumanTimestampFrom(now.AddDate(0, -1, 0), now))
}

func TestBar(t *testing.T) {
	assert.Empty(t, Bar(1, 0, 10, StyleGreen))
	assert.Equal(t, 10, lipgloss.Width(Bar(3, 10, 10, StyleGreen)))
	assert.Contains(t, Bar(1, 1000, 10, StyleGreen), "█", "non-zero counts stay visible")
}

func TestFormatEnums(t *testing.T) {
	out := FormatEnums(EnumTables())
	assert.Contains(t, out, "TEST CYCLE STATUSES")
	assert.Contains(t, out, "Not Executed")
	assert.Contains(t, out, "projectKey")
}

func TestFormatSyncRuns(t *testing.T) {
	assert.Contains(t, FormatSyncRuns(nil), "No sync runs")
	out := FormatSyncRuns([]*domain.SyncRun{
		{ProjectKey: "PROJ", Status: domain.SyncFailed, StartedAt: time.Now(), Error: "boom"},
	})
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "boom")
}

func TestWriteJSON(t *testing.T) {
	var plain bytes.Buffer
	require.NoError(t, WriteJSON(&plain, map[string]any{"key": "PROJ-T1"}, false))
	assert.Equal(t, "{\n  \"key\": \"PROJ-T1\"\n}\n", plain.String())

	var colored bytes.Buffer
	require.NoError(t, WriteJSON(&colored, map[string]any{"key": "PROJ-T1"}, true))
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "PROJ-T1")
}
