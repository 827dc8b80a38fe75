package formatter

import (
	"strconv"

	"github.com/alexanderramin/zscale/internal/domain"
)

func FormatSyncRuns(runs []*domain.SyncRun) string {
	if len(runs) == 0 {
		return Dim("No sync runs recorded.")
	}
	headers := []string{"PROJECT", "STATUS", "CASES", "CYCLES", "EXECUTIONS", "STARTED", "ERROR"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			Bold(r.ProjectKey),
			SyncStatusPill(r.Status),
			strconv.Itoa(r.TestCases),
			strconv.Itoa(r.TestCycles),
			strconv.Itoa(r.TestExecutions),
			HumanTimestamp(r.StartedAt),
			StyleRed.Render(r.Error),
		})
	}
	return RenderTable(headers, rows)
}
