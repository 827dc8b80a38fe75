package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/zscale/internal/domain"
)

// enumValue is a pflag.Value restricted to one closed table, so an unknown
// status fails at flag parsing with the allowed values listed.
type enumValue[T ~string] struct {
	value *T
	parse func(string) (T, error)
	names []string
	typ   string
}

var _ pflag.Value = (*enumValue[domain.TestCasePriority])(nil)

func (e *enumValue[T]) String() string { return string(*e.value) }
func (e *enumValue[T]) Type() string   { return e.typ }

func (e *enumValue[T]) Set(s string) error {
	v, err := e.parse(s)
	if err != nil {
		return err
	}
	*e.value = v
	return nil
}

func addEnumFlag[T ~string](cmd *cobra.Command, p *T, name, typ string, parse func(string) (T, error), names []string, usage string) {
	cmd.Flags().Var(&enumValue[T]{value: p, parse: parse, names: names, typ: typ}, name,
		usage+" ("+strings.Join(quoteSpaced(names), ", ")+")")
	_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp))
}

func addPriorityFlag(cmd *cobra.Command, p *domain.TestCasePriority) {
	addEnumFlag(cmd, p, "priority", "priority", domain.ParseTestCasePriority, domain.TestCasePriorityNames(), "Test case priority")
}

func addCaseStatusFlag(cmd *cobra.Command, p *domain.TestCaseStatus) {
	addEnumFlag(cmd, p, "status", "status", domain.ParseTestCaseStatus, domain.TestCaseStatusNames(), "Test case status")
}

func addCycleStatusFlag(cmd *cobra.Command, p *domain.TestCycleStatus) {
	addEnumFlag(cmd, p, "status", "status", domain.ParseTestCycleStatus, domain.TestCycleStatusNames(), "Test cycle status")
}

func addExecutionStatusFlag(cmd *cobra.Command, p *domain.TestExecutionStatus) {
	addEnumFlag(cmd, p, "status", "status", domain.ParseTestExecutionStatus, domain.TestExecutionStatusNames(), "Execution status")
}

func quoteSpaced(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if strings.Contains(n, " ") {
			n = `"` + n + `"`
		}
		out[i] = n
	}
	return out
}

// optionalInt returns nil for flags the user did not set.
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func addCustomFieldsFlag(cmd *cobra.Command, p *map[string]string) {
	cmd.Flags().StringToStringVar(p, "custom", nil, "Custom field NAME=VALUE (repeatable)")
}

// customFields converts --custom values for a request; nil when none were given.
func customFields(values map[string]string) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
