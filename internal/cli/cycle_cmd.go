package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/service"
	"github.com/alexanderramin/zscale/internal/zapi"
)

func newCycleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cycle",
		Aliases: []string{"cycles"},
		Short:   "Manage test cycles",
	}

	cmd.AddCommand(
		newCycleGetCmd(app),
		newCycleSearchCmd(app),
		newCycleCreateCmd(app),
		newCycleUpdateCmd(app),
		newCycleDeleteCmd(app),
		newCycleLinkCmd(app),
		newCycleAddCaseCmd(app),
	)

	return cmd
}

func newCycleGetCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Show a test cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Cycles.Get(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return render(cmd, asJSON, c, func() string { return formatter.FormatTestCycle(c) })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCycleSearchCmd(app *App) *cobra.Command {
	var (
		project       string
		folder, limit int
		startAt       int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List test cycles in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := app.Cycles.Search(cmd.Context(), zapi.TestCycleQuery{
				ProjectKey: strings.ToUpper(project),
				FolderID:   optionalInt(cmd, "folder", folder),
				MaxResults: limit,
				StartAt:    startAt,
			})
			if err != nil {
				return err
			}
			return render(cmd, asJSON, page.Values, func() string {
				return formatter.FormatTestCycleList(page.Values)
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Jira project key")
	cmd.Flags().IntVar(&folder, "folder", 0, "Folder ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (1-100)")
	cmd.Flags().IntVar(&startAt, "start", 0, "Index of the first result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

type cycleFlags struct {
	project, name, description string
	status                     domain.TestCycleStatus
	folder                     int
	start, end                 string
	custom                     map[string]string
}

func (f *cycleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&f.name, "name", "", "Cycle name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	addCycleStatusFlag(cmd, &f.status)
	cmd.Flags().IntVar(&f.folder, "folder", 0, "Folder ID")
	cmd.Flags().StringVar(&f.start, "start", "", "Planned start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Planned end date (YYYY-MM-DD)")
	addCustomFieldsFlag(cmd, &f.custom)
}

func (f *cycleFlags) request(cmd *cobra.Command) service.TestCycleRequest {
	return service.TestCycleRequest{
		ProjectKey:       strings.ToUpper(f.project),
		Name:             f.name,
		Description:      f.description,
		Status:           string(f.status),
		FolderID:         optionalInt(cmd, "folder", f.folder),
		PlannedStartDate: f.start,
		PlannedEndDate:   f.end,
		CustomFields:     customFields(f.custom),
	}
}

func newCycleCreateCmd(app *App) *cobra.Command {
	var f cycleFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a test cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.request(cmd)
			if req.Name == "" && app.interactive() {
				if err := testCycleForm(&req).Run(); err != nil {
					return err
				}
			}
			created, err := app.Cycles.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd, "Created test cycle %s\n", formatter.Bold(created.Key))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCycleUpdateCmd(app *App) *cobra.Command {
	var f cycleFlags

	cmd := &cobra.Command{
		Use:   "update KEY",
		Short: "Update fields of a test cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Cycles.Update(cmd.Context(), key, f.request(cmd)); err != nil {
				return err
			}
			printf(cmd, "Updated test cycle %s\n", formatter.Bold(key))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCycleDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a test cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Cycles.Delete(cmd.Context(), key); err != nil {
				return err
			}
			printf(cmd, "Deleted test cycle %s\n", key)
			return nil
		},
	}
}

func newCycleLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link KEY ISSUE",
		Short: "Link a test cycle to a Jira issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, issue := strings.ToUpper(args[0]), strings.ToUpper(args[1])
			if err := app.Cycles.Link(cmd.Context(), key, issue); err != nil {
				return err
			}
			printf(cmd, "Linked %s to %s\n", formatter.Bold(key), issue)
			return nil
		},
	}
}

func newCycleAddCaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-case CYCLE TESTCASE...",
		Short: "Add test cases to a cycle as Not Executed executions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cycle := strings.ToUpper(args[0])
			for _, tc := range args[1:] {
				created, err := app.Cycles.AddTestCase(cmd.Context(), cycle, strings.ToUpper(tc))
				if err != nil {
					return err
				}
				printf(cmd, "Added %s to %s as %s\n", strings.ToUpper(tc), cycle, formatter.Bold(created.Key))
			}
			return nil
		},
	}
}
