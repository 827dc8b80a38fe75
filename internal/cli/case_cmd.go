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

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "case",
		Aliases: []string{"cases", "tc"},
		Short:   "Manage test cases",
	}

	cmd.AddCommand(
		newCaseGetCmd(app),
		newCaseSearchCmd(app),
		newCaseCreateCmd(app),
		newCaseUpdateCmd(app),
		newCaseDeleteCmd(app),
		newCaseStepsCmd(app),
		newCaseSetStepsCmd(app),
		newCaseLinkCmd(app),
		newCaseLinksCmd(app),
		newCaseListCmd(app),
	)

	return cmd
}

func newCaseGetCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Show a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := app.Cases.Get(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return render(cmd, asJSON, tc, func() string { return formatter.FormatTestCase(tc) })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCaseSearchCmd(app *App) *cobra.Command {
	var (
		project, fieldsCSV string
		folder, limit      int
		startAt            int
		all, asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search test cases in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := domain.ParseTestCaseFieldSet(fieldsCSV)
			if err != nil {
				return err
			}
			q := zapi.TestCaseQuery{
				ProjectKey: strings.ToUpper(project),
				FolderID:   optionalInt(cmd, "folder", folder),
				MaxResults: limit,
				StartAt:    startAt,
			}

			var cases []domain.TestCase
			if all {
				cases, err = app.Cases.SearchAll(cmd.Context(), q)
			} else {
				var page *zapi.Page[domain.TestCase]
				page, err = app.Cases.Search(cmd.Context(), q)
				if page != nil {
					cases = page.Values
				}
			}
			if err != nil {
				return err
			}

			ptrs := make([]*domain.TestCase, len(cases))
			for i := range cases {
				ptrs[i] = &cases[i]
			}
			return render(cmd, asJSON, cases, func() string {
				return formatter.FormatTestCaseList(ptrs, fields)
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Jira project key")
	cmd.Flags().IntVar(&folder, "folder", 0, "Folder ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (1-100, default from config)")
	cmd.Flags().IntVar(&startAt, "start", 0, "Index of the first result")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	cmd.Flags().StringVar(&fieldsCSV, "fields", "", "Comma-separated columns (default: "+strings.Join(domain.DefaultTestCaseFields(), ",")+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// caseFlags are shared by create and update.
type caseFlags struct {
	project, name, objective, precondition string
	priority                               domain.TestCasePriority
	status                                 domain.TestCaseStatus
	folder                                 int
	labels                                 []string
	custom                                 map[string]string
}

func (f *caseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&f.name, "name", "", "Test case name")
	cmd.Flags().StringVar(&f.objective, "objective", "", "Objective")
	cmd.Flags().StringVar(&f.precondition, "precondition", "", "Precondition")
	addPriorityFlag(cmd, &f.priority)
	addCaseStatusFlag(cmd, &f.status)
	cmd.Flags().IntVar(&f.folder, "folder", 0, "Folder ID")
	cmd.Flags().StringSliceVar(&f.labels, "label", nil, "Label (repeatable)")
	addCustomFieldsFlag(cmd, &f.custom)
}

func (f *caseFlags) request(cmd *cobra.Command) service.TestCaseRequest {
	return service.TestCaseRequest{
		ProjectKey:   strings.ToUpper(f.project),
		Name:         f.name,
		Objective:    f.objective,
		Precondition: f.precondition,
		Priority:     string(f.priority),
		Status:       string(f.status),
		FolderID:     optionalInt(cmd, "folder", f.folder),
		Labels:       f.labels,
		CustomFields: customFields(f.custom),
	}
}

func newCaseCreateCmd(app *App) *cobra.Command {
	var f caseFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a test case",
		Long: "Create a test case. Without --name on an interactive terminal a form\n" +
			"asks for the name, priority and status.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.request(cmd)
			if req.Name == "" && app.interactive() {
				if err := testCaseForm(&req).Run(); err != nil {
					return err
				}
			}
			created, err := app.Cases.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd, "Created test case %s\n", formatter.Bold(created.Key))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCaseUpdateCmd(app *App) *cobra.Command {
	var f caseFlags

	cmd := &cobra.Command{
		Use:   "update KEY",
		Short: "Update fields of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Cases.Update(cmd.Context(), key, f.request(cmd)); err != nil {
				return err
			}
			printf(cmd, "Updated test case %s\n", formatter.Bold(key))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCaseDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			if err := app.Cases.Delete(cmd.Context(), key); err != nil {
				return err
			}
			printf(cmd, "Deleted test case %s\n", key)
			return nil
		},
	}
}

func newCaseStepsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "steps KEY",
		Short: "Show the test script steps of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			steps, err := app.Cases.Steps(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd, asJSON, steps, func() string { return formatter.FormatSteps(key, steps) })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCaseSetStepsCmd(app *App) *cobra.Command {
	var raw []string

	cmd := &cobra.Command{
		Use:   "set-steps KEY --step 'description|expected result[|test data]'...",
		Short: "Replace the test script steps of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(raw)
			if err != nil {
				return err
			}
			key := strings.ToUpper(args[0])
			if err := app.Cases.SetSteps(cmd.Context(), key, steps); err != nil {
				return err
			}
			printf(cmd, "Set %d steps on %s\n", len(steps), formatter.Bold(key))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&raw, "step", nil, "Step as 'description|expected result[|test data]' (repeatable, in order)")
	_ = cmd.MarkFlagRequired("step")
	return cmd
}

// parseSteps splits each "description|expected|data" argument.
func parseSteps(raw []string) ([]domain.TestStep, error) {
	steps := make([]domain.TestStep, 0, len(raw))
	for i, r := range raw {
		parts := strings.SplitN(r, "|", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("step %d: want 'description|expected result[|test data]', got %q", i+1, r)
		}
		step := domain.TestStep{
			Description:    strings.TrimSpace(parts[0]),
			ExpectedResult: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			step.TestData = strings.TrimSpace(parts[2])
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func newCaseLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link KEY ISSUE",
		Short: "Link a test case to a Jira issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, issue := strings.ToUpper(args[0]), strings.ToUpper(args[1])
			if err := app.Cases.Link(cmd.Context(), key, issue); err != nil {
				return err
			}
			printf(cmd, "Linked %s to %s\n", formatter.Bold(key), issue)
			return nil
		},
	}
}

func newCaseLinksCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "links KEY",
		Short: "List Jira issues linked to a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(args[0])
			links, err := app.Cases.Links(cmd.Context(), key)
			if err != nil {
				return err
			}
			return render(cmd, asJSON, links, func() string { return formatter.FormatLinks(key, links) })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCaseListCmd(app *App) *cobra.Command {
	var (
		filter    service.CacheFilter
		priority  domain.TestCasePriority
		status    domain.TestCaseStatus
		fieldsCSV string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test cases from the local cache (run 'zscale sync' first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := domain.ParseTestCaseFieldSet(fieldsCSV)
			if err != nil {
				return err
			}
			filter.ProjectKey = strings.ToUpper(filter.ProjectKey)
			filter.Priority = string(priority)
			filter.Status = string(status)

			cases, err := app.Cases.ListCached(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(cases) == 0 && !asJSON {
				printf(cmd, "No cached test cases match.\n")
				return nil
			}
			return render(cmd, asJSON, cases, func() string {
				return formatter.FormatTestCaseList(cases, fields)
			})
		},
	}

	cmd.Flags().StringVarP(&filter.ProjectKey, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&filter.KeyGlob, "key", "", "Key glob, e.g. 'PROJ-T1*' or '{PROJ,OPS}-T*'")
	addPriorityFlag(cmd, &priority)
	addCaseStatusFlag(cmd, &status)
	cmd.Flags().StringVar(&fieldsCSV, "fields", "", "Comma-separated columns")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Annotations = offline()
	return cmd
}
