package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/service"
	"github.com/alexanderramin/zscale/internal/zapi"
)

func newExecCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec",
		Aliases: []string{"execution", "executions"},
		Short:   "Record and inspect test executions",
	}

	cmd.AddCommand(
		newExecGetCmd(app),
		newExecSearchCmd(app),
		newExecCreateCmd(app),
		newExecUpdateCmd(app),
		newExecDeleteCmd(app),
		newExecSummaryCmd(app),
	)

	return cmd
}

func newExecGetCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Show a test execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Executions.Get(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return render(cmd, asJSON, e, func() string { return formatter.FormatExecution(e) })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newExecSearchCmd(app *App) *cobra.Command {
	var (
		q      zapi.ExecutionQuery
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List executions by project, cycle or test case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.ProjectKey = strings.ToUpper(q.ProjectKey)
			q.TestCycleKey = strings.ToUpper(q.TestCycleKey)
			q.TestCaseKey = strings.ToUpper(q.TestCaseKey)
			if q.ProjectKey == "" && q.TestCycleKey == "" && q.TestCaseKey == "" {
				return fmt.Errorf("one of --project, --cycle or --case is required")
			}
			page, err := app.Executions.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			return render(cmd, asJSON, page.Values, func() string {
				return formatter.FormatExecutionList(page.Values)
			})
		},
	}
	cmd.Flags().StringVarP(&q.ProjectKey, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&q.TestCycleKey, "cycle", "", "Test cycle key")
	cmd.Flags().StringVar(&q.TestCaseKey, "case", "", "Test case key")
	cmd.Flags().IntVar(&q.MaxResults, "limit", 0, "Page size (1-100)")
	cmd.Flags().IntVar(&q.StartAt, "start", 0, "Index of the first result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type execFlags struct {
	project, testCase, cycle string
	status                   domain.TestExecutionStatus
	environment              string
	assignedTo, executedBy   string
	timeMs                   int
	comment                  string
	custom                   map[string]string
}

func (f *execFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Jira project key (default: from the test case key)")
	cmd.Flags().StringVar(&f.testCase, "case", "", "Test case key")
	cmd.Flags().StringVar(&f.cycle, "cycle", "", "Test cycle key")
	addExecutionStatusFlag(cmd, &f.status)
	cmd.Flags().StringVar(&f.environment, "env", "", "Environment name")
	cmd.Flags().StringVar(&f.assignedTo, "assignee", "", "Assignee account ID")
	cmd.Flags().StringVar(&f.executedBy, "executed-by", "", "Executor account ID")
	cmd.Flags().IntVar(&f.timeMs, "time-ms", 0, "Execution time in milliseconds")
	cmd.Flags().StringVar(&f.comment, "comment", "", "Comment")
	addCustomFieldsFlag(cmd, &f.custom)
}

func (f *execFlags) request(cmd *cobra.Command) service.ExecutionRequest {
	return service.ExecutionRequest{
		ProjectKey:      strings.ToUpper(f.project),
		TestCaseKey:     strings.ToUpper(f.testCase),
		TestCycleKey:    strings.ToUpper(f.cycle),
		Status:          string(f.status),
		Environment:     f.environment,
		AssignedTo:      f.assignedTo,
		ExecutedBy:      f.executedBy,
		ExecutionTimeMs: optionalInt(cmd, "time-ms", f.timeMs),
		Comment:         f.comment,
		CustomFields:    customFields(f.custom),
	}
}

func newExecCreateCmd(app *App) *cobra.Command {
	var f execFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a test execution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.Executions.Create(cmd.Context(), f.request(cmd))
			if err != nil {
				return err
			}
			printf(cmd, "Recorded %s %s\n", formatter.ExecutionStatusPill(f.status), formatter.Bold(created.Key))
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("case")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newExecUpdateCmd(app *App) *cobra.Command {
	var f execFlags

	cmd := &cobra.Command{
		Use:   "update KEY",
		Short: "Update a test execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Executions.Update(cmd.Context(), key, f.request(cmd)); err != nil {
				return err
			}
			printf(cmd, "Updated execution %s\n", formatter.Bold(key))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newExecDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a test execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Executions.Delete(cmd.Context(), key); err != nil {
				return err
			}
			printf(cmd, "Deleted execution %s\n", key)
			return nil
		},
	}
}

func newExecSummaryCmd(app *App) *cobra.Command {
	var (
		req    service.SummaryRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count executions per status for a cycle or project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ProjectKey = strings.ToUpper(req.ProjectKey)
			req.TestCycleKey = strings.ToUpper(req.TestCycleKey)
			summary, err := app.Executions.Summary(cmd.Context(), req)
			if err != nil {
				return err
			}
			scope := req.TestCycleKey
			if scope == "" {
				scope = req.ProjectKey
			}
			return render(cmd, asJSON, summary, func() string { return formatter.FormatSummary(scope, summary) })
		},
	}
	cmd.Flags().StringVarP(&req.ProjectKey, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&req.TestCycleKey, "cycle", "", "Test cycle key")
	cmd.Flags().BoolVar(&req.Cached, "cached", false, "Summarize from the local cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
