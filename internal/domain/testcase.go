package domain

import (
	"fmt"
	"strings"
	"time"
)

type TestCase struct {
	Key          string           `json:"key"`
	Name         string           `json:"name"`
	Objective    string           `json:"objective,omitempty"`
	Precondition string           `json:"precondition,omitempty"`
	Priority     TestCasePriority `json:"priority,omitempty"`
	Status       TestCaseStatus   `json:"status,omitempty"`
	ProjectKey   string           `json:"projectKey"`
	FolderID     *int             `json:"folderId,omitempty"`
	Labels       []string         `json:"labels,omitempty"`
	CustomFields map[string]any   `json:"customFields,omitempty"`
	CreatedOn    *time.Time       `json:"createdOn,omitempty"`
	UpdatedOn    *time.Time       `json:"updatedOn,omitempty"`
}

// Record flattens the test case into the field-name keyed form consumed by
// TestCaseFieldSet. Custom fields are addressable as "customFields.<name>".
func (tc *TestCase) Record() map[string]any {
	rec := map[string]any{
		"key":          tc.Key,
		"name":         tc.Name,
		"objective":    tc.Objective,
		"precondition": tc.Precondition,
		"priority":     string(tc.Priority),
		"status":       string(tc.Status),
		"projectKey":   tc.ProjectKey,
	}
	if tc.FolderID != nil {
		rec["folderId"] = *tc.FolderID
	}
	if len(tc.Labels) > 0 {
		rec["labels"] = append([]string(nil), tc.Labels...)
	}
	if tc.CreatedOn != nil {
		rec["createdOn"] = *tc.CreatedOn
	}
	if tc.UpdatedOn != nil {
		rec["updatedOn"] = *tc.UpdatedOn
	}
	for k, v := range tc.CustomFields {
		rec["customFields."+k] = v
	}
	return rec
}

type TestStep struct {
	Description    string `json:"description"`
	ExpectedResult string `json:"expectedResult"`
	TestData       string `json:"testData,omitempty"`
}

// IssueLink is a Jira issue linked to a test case or cycle.
type IssueLink struct {
	IssueKey string `json:"issueKey,omitempty"`
	IssueID  int    `json:"issueId,omitempty"`
	Self     string `json:"self,omitempty"`
}

// ProjectKeyFromTestCaseKey extracts the project key from a test case key,
// e.g. "PROJ-T123" -> "PROJ".
func ProjectKeyFromTestCaseKey(key string) (string, error) {
	i := strings.Index(key, "-")
	if i <= 0 {
		return "", fmt.Errorf("test case key %q has no project prefix", key)
	}
	return key[:i], nil
}
