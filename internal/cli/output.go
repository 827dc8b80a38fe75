package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
)

// render prints v as JSON when asJSON is set, otherwise the pretty text.
func render(cmd *cobra.Command, asJSON bool, v any, pretty func() string) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return formatter.WriteJSON(out, v, colorOutput(out))
	}
	_, err := fmt.Fprintln(out, pretty())
	return err
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
