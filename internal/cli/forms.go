package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/zscale/internal/cli/formatter"
	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/alexanderramin/zscale/internal/service"
)

func zscaleHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// testCaseForm asks for the fields a new test case needs. Priority and
// status options come from the closed tables.
func testCaseForm(req *service.TestCaseRequest) *huh.Form {
	if req.Priority == "" {
		req.Priority = string(domain.PriorityMedium)
	}
	if req.Status == "" {
		req.Status = string(domain.CaseDraft)
	}

	var fields []huh.Field
	if req.ProjectKey == "" {
		fields = append(fields, huh.NewInput().
			Title("Project Key").
			Placeholder("PROJ").
			Value(&req.ProjectKey).
			Validate(requiredText("project key")))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Name").
			Value(&req.Name).
			Validate(requiredText("name")),
		huh.NewText().
			Title("Objective").
			Value(&req.Objective),
		huh.NewSelect[string]().
			Title("Priority").
			Options(huh.NewOptions(domain.TestCasePriorityNames()...)...).
			Value(&req.Priority),
		huh.NewSelect[string]().
			Title("Status").
			Options(huh.NewOptions(domain.TestCaseStatusNames()...)...).
			Value(&req.Status),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(zscaleHuhTheme()).
		WithShowHelp(false)
}

// testCycleForm asks for a new cycle's name and planned dates.
func testCycleForm(req *service.TestCycleRequest) *huh.Form {
	var fields []huh.Field
	if req.ProjectKey == "" {
		fields = append(fields, huh.NewInput().
			Title("Project Key").
			Placeholder("PROJ").
			Value(&req.ProjectKey).
			Validate(requiredText("project key")))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Name").
			Value(&req.Name).
			Validate(requiredText("name")),
		dateInput("Planned Start (YYYY-MM-DD, blank for none)", &req.PlannedStartDate),
		dateInput("Planned End (YYYY-MM-DD, blank for none)", &req.PlannedEndDate),
	)
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(zscaleHuhTheme()).
		WithShowHelp(false)
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(time.Now().Format("2006-01-02")).
		Value(value).
		Validate(validateOptionalDate)
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func requiredText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
