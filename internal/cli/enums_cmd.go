package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
)

func newEnumsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "enums",
		Short: "Show default test case fields and the status/priority tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := formatter.EnumTables()
			return render(cmd, asJSON, tables, func() string {
				return formatter.FormatEnums(tables)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Annotations = offline()
	return cmd
}
