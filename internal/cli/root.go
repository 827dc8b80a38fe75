package cli

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/service"
)

// App holds the services used by CLI commands.
type App struct {
	Cases      service.TestCaseService
	Cycles     service.TestCycleService
	Executions service.TestExecutionService
	Sync       service.SyncService

	// Ping checks API reachability. Nil disables the ping command's check.
	Ping func(ctx context.Context) error

	// ConfigErr is the credential problem found at startup, if any. It is
	// reported by commands that talk to the API; offline commands still run.
	ConfigErr error

	// IsInteractive reports whether stdin is a terminal; forms only open
	// when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "zscale" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "zscale",
		Short:         "Zephyr Scale test management from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.ConfigErr != nil && requiresAPI(cmd) {
				return app.ConfigErr
			}
			return nil
		},
	}

	root.AddCommand(
		newEnumsCmd(),
		newPingCmd(app),
		newCaseCmd(app),
		newCycleCmd(app),
		newExecCmd(app),
		newSyncCmd(app),
		newExportCmd(app),
	)

	return root
}

// annotationOffline marks commands that only read the local cache.
const annotationOffline = "offline"

func offline() map[string]string {
	return map[string]string{annotationOffline: "true"}
}

func requiresAPI(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationOffline] == "true" {
		return false
	}
	if f := cmd.Flags().Lookup("cached"); f != nil && f.Value.String() == "true" {
		return false
	}
	return true
}

// colorOutput reports whether w is a terminal that should get highlighted
// JSON.
func colorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
