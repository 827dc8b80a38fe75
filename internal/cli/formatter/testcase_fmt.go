package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/zscale/internal/domain"
)

// FormatTestCaseList renders test cases projected on a field set. Priority
// and status columns get their badges; every other column is plain text.
func FormatTestCaseList(cases []*domain.TestCase, fields domain.TestCaseFieldSet) string {
	names := fields.Fields()
	headers := make([]string, len(names))
	for i, n := range names {
		headers[i] = strings.ToUpper(n)
	}

	rows := make([][]string, 0, len(cases))
	for _, tc := range cases {
		row := fields.Row(tc.Record())
		for i, n := range names {
			switch n {
			case "key":
				row[i] = Bold(row[i])
			case "priority":
				row[i] = PriorityBadge(tc.Priority)
			case "status":
				row[i] = CaseStatusPill(tc.Status)
			}
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Test cases (%d)", len(cases))
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTestCase renders one test case as a detail card.
func FormatTestCase(tc *domain.TestCase) string {
	folder := ""
	if tc.FolderID != nil {
		folder = strconv.Itoa(*tc.FolderID)
	}
	pairs := [][2]string{
		{"key", Bold(tc.Key)},
		{"project", tc.ProjectKey},
		{"priority", PriorityBadge(tc.Priority)},
		{"status", CaseStatusPill(tc.Status)},
		{"folder", folder},
		{"labels", strings.Join(tc.Labels, ", ")},
		{"created", DateOrDash(tc.CreatedOn)},
		{"updated", DateOrDash(tc.UpdatedOn)},
	}
	for _, name := range sortedCustomFields(tc.CustomFields) {
		pairs = append(pairs, [2]string{name, domain.FormatFieldValue(tc.CustomFields[name])})
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(tc.Name) + "\n\n")
	b.WriteString(KeyValues(pairs))
	if tc.Objective != "" {
		b.WriteString("\n\n" + Header("Objective") + "\n" + tc.Objective)
	}
	if tc.Precondition != "" {
		b.WriteString("\n\n" + Header("Precondition") + "\n" + tc.Precondition)
	}
	return RenderBox("", b.String())
}

// FormatSteps renders numbered test steps.
func FormatSteps(key string, steps []domain.TestStep) string {
	if len(steps) == 0 {
		return Dim(fmt.Sprintf("%s has no test steps.", key))
	}
	rows := make([][]string, len(steps))
	for i, s := range steps {
		rows[i] = []string{strconv.Itoa(i + 1), s.Description, s.TestData, s.ExpectedResult}
	}
	return RenderBox(key+" steps", RenderTable([]string{"#", "STEP", "TEST DATA", "EXPECTED"}, rows))
}

// FormatLinks renders linked Jira issues.
func FormatLinks(key string, links []domain.IssueLink) string {
	if len(links) == 0 {
		return Dim(fmt.Sprintf("%s has no linked issues.", key))
	}
	rows := make([][]string, len(links))
	for i, l := range links {
		id := ""
		if l.IssueID != 0 {
			id = strconv.Itoa(l.IssueID)
		}
		rows[i] = []string{Bold(l.IssueKey), Dim(id)}
	}
	return RenderTable([]string{"ISSUE", "ID"}, rows)
}

func sortedCustomFields(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
