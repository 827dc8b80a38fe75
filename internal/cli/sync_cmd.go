package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
)

func newSyncCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sync PROJECT...",
		Short: "Refresh the local cache for one or more projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Sync.Sync(cmd.Context(), args)
			if renderErr := render(cmd, asJSON, runs, func() string { return formatter.FormatSyncRuns(runs) }); renderErr != nil {
				return renderErr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(newSyncStatusCmd(app))
	return cmd
}

func newSyncStatusCmd(app *App) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			runs, err := app.Sync.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd, asJSON, runs, func() string { return formatter.FormatSyncRuns(runs) })
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Annotations = offline()
	return cmd
}
