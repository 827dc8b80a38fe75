package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/export"
	"github.com/alexanderramin/zscale/internal/service"
	"github.com/alexanderramin/zscale/internal/zapi"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		project, formatStr, fieldsCSV, outPath string
		cached                                 bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's test cases to CSV or XLSX",
		Long: "Export test cases projected on a field list. Cases come from the API\n" +
			"unless --cached is given. XLSX needs --output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := domain.ParseTestCaseFieldSet(fieldsCSV)
			if err != nil {
				return err
			}
			format := export.FormatFromPath(outPath)
			if cmd.Flags().Changed("format") {
				if format, err = export.ParseFormat(formatStr); err != nil {
					return err
				}
			}
			if format == export.FormatXLSX && outPath == "" {
				return fmt.Errorf("xlsx export needs --output")
			}

			project = strings.ToUpper(project)
			var cases []*domain.TestCase
			if cached {
				cases, err = app.Cases.ListCached(cmd.Context(), service.CacheFilter{ProjectKey: project})
			} else {
				var all []domain.TestCase
				all, err = app.Cases.SearchAll(cmd.Context(), zapi.TestCaseQuery{ProjectKey: project})
				for i := range all {
					cases = append(cases, &all[i])
				}
			}
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			n, err := export.TestCases(w, format, cases, fields)
			if err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d test cases to %s\n", n, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Jira project key")
	cmd.Flags().StringVar(&formatStr, "format", "csv", "Output format: csv or xlsx (default from --output extension)")
	cmd.Flags().StringVar(&fieldsCSV, "fields", "", "Comma-separated columns")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&cached, "cached", false, "Export from the local cache")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
