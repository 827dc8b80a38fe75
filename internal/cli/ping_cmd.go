package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
)

func newPingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Zephyr Scale API is reachable with the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Ping == nil {
				return fmt.Errorf("no API client configured")
			}
			if err := app.Ping(cmd.Context()); err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.StyleGreen.Render("✔ API reachable"))
			return nil
		},
	}
}
