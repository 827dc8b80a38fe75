package formatter

import (
	"strings"

	"github.com/alexanderramin/zscale/internal/domain"
)

// EnumTable is one named closed table for display.
type EnumTable struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// EnumTables lists the default field projection and the four enumerations
// in a fixed order.
func EnumTables() []EnumTable {
	return []EnumTable{
		{Name: "Default test case fields", Values: domain.DefaultTestCaseFields()},
		{Name: "Test execution statuses", Values: domain.TestExecutionStatusNames()},
		{Name: "Test case priorities", Values: domain.TestCasePriorityNames()},
		{Name: "Test case statuses", Values: domain.TestCaseStatusNames()},
		{Name: "Test cycle statuses", Values: domain.TestCycleStatusNames()},
	}
}

func FormatEnums(tables []EnumTable) string {
	sections := make([]string, len(tables))
	for i, t := range tables {
		var b strings.Builder
		b.WriteString(Header(t.Name) + "\n")
		for _, v := range t.Values {
			b.WriteString("  " + v + "\n")
		}
		sections[i] = strings.TrimRight(b.String(), "\n")
	}
	return strings.Join(sections, "\n\n")
}
