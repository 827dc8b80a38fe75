package formatter

import (
	"fmt"

	"github.com/alexanderramin/zscale/internal/domain"
)

func FormatTestCycleList(cycles []domain.TestCycle) string {
	headers := []string{"KEY", "NAME", "STATUS", "START", "END"}
	rows := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		rows = append(rows, []string{
			Bold(c.Key),
			c.Name,
			CycleStatusPill(c.Status),
			DateOrDash(c.PlannedStartDate),
			DateOrDash(c.PlannedEndDate),
		})
	}
	return RenderBox(fmt.Sprintf("Test cycles (%d)", len(cycles)), RenderTable(headers, rows))
}

func FormatTestCycle(c *domain.TestCycle) string {
	body := StyleBold.Render(c.Name) + "\n\n" + KeyValues([][2]string{
		{"key", Bold(c.Key)},
		{"project", c.ProjectKey},
		{"status", CycleStatusPill(c.Status)},
		{"start", DateOrDash(c.PlannedStartDate)},
		{"end", DateOrDash(c.PlannedEndDate)},
	})
	if c.Description != "" {
		body += "\n\n" + c.Description
	}
	return RenderBox("", body)
}
