package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/zscale/internal/domain"
)

func FormatExecutionList(executions []domain.TestExecution) string {
	headers := []string{"KEY", "TEST CASE", "CYCLE", "STATUS", "ENV", "TIME"}
	rows := make([][]string, 0, len(executions))
	for _, e := range executions {
		elapsed := Dim("--")
		if e.ExecutionTimeMs != nil {
			elapsed = FormatMillis(*e.ExecutionTimeMs)
		}
		cycle := e.TestCycleKey
		if cycle == "" {
			cycle = Dim("--")
		}
		rows = append(rows, []string{
			Bold(e.Key),
			e.TestCaseKey,
			cycle,
			ExecutionStatusPill(e.Status),
			e.Environment,
			elapsed,
		})
	}
	return RenderBox(fmt.Sprintf("Executions (%d)", len(executions)), RenderTable(headers, rows))
}

func FormatExecution(e *domain.TestExecution) string {
	elapsed := ""
	if e.ExecutionTimeMs != nil {
		elapsed = FormatMillis(*e.ExecutionTimeMs)
	}
	body := KeyValues([][2]string{
		{"key", Bold(e.Key)},
		{"test case", e.TestCaseKey},
		{"cycle", e.TestCycleKey},
		{"status", ExecutionStatusPill(e.Status)},
		{"environment", e.Environment},
		{"assigned to", e.AssignedTo},
		{"executed by", e.ExecutedBy},
		{"time", elapsed},
	})
	if e.Comment != "" {
		body += "\n\n" + e.Comment
	}
	return RenderBox("", body)
}

const summaryBarWidth = 24

// FormatSummary renders per-status counts in table order with bars.
func FormatSummary(scope string, s *domain.ExecutionSummary) string {
	var b strings.Builder
	for _, st := range domain.TestExecutionStatuses() {
		n := s.ByStatus[st]
		fmt.Fprintf(&b, "%-14s %4d  %s\n",
			string(st), n, Bar(n, s.Total, summaryBarWidth, ExecutionStatusStyle(st)))
	}
	if s.Other > 0 {
		fmt.Fprintf(&b, "%-14s %4d  %s\n", "Other", s.Other, Bar(s.Other, s.Total, summaryBarWidth, StyleDim))
	}
	fmt.Fprintf(&b, "\n%s %d   %s %.1f%%",
		StyleDim.Render("TOTAL"), s.Total, StyleDim.Render("PASS RATE"), s.PassRate()*100)
	return RenderBox(scope, b.String())
}
