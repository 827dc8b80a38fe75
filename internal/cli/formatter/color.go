package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/zscale/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ExecutionStatusStyle maps an execution outcome to its color. Custom
// statuses outside the closed table are dimmed.
func ExecutionStatusStyle(s domain.TestExecutionStatus) lipgloss.Style {
	switch s {
	case domain.ExecutionPass:
		return StyleGreen
	case domain.ExecutionFail:
		return StyleRed
	case domain.ExecutionBlocked:
		return StyleYellow
	case domain.ExecutionInProgress:
		return StyleBlue
	default:
		return StyleDim
	}
}

// ExecutionStatusPill renders an execution status such as "✔ Pass".
func ExecutionStatusPill(s domain.TestExecutionStatus) string {
	if s == "" {
		return StyleDim.Render("--")
	}
	icon := "○"
	switch s {
	case domain.ExecutionPass:
		icon = "✔"
	case domain.ExecutionFail:
		icon = "✖"
	case domain.ExecutionBlocked:
		icon = "⊘"
	case domain.ExecutionInProgress:
		icon = "●"
	}
	return ExecutionStatusStyle(s).Render(icon + " " + string(s))
}

// PriorityBadge renders High in red, Medium in yellow and Low dimmed.
func PriorityBadge(p domain.TestCasePriority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ High")
	case domain.PriorityMedium:
		return StyleYellow.Render("■ Medium")
	case domain.PriorityLow:
		return StyleDim.Render("▼ Low")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleFg.Render(string(p))
	}
}

func CaseStatusPill(s domain.TestCaseStatus) string {
	switch s {
	case domain.CaseDraft:
		return StyleBlue.Render("○ Draft")
	case domain.CaseApproved:
		return StyleGreen.Render("● Approved")
	case domain.CaseDeprecated:
		return StyleDim.Render("✖ Deprecated")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleFg.Render(string(s))
	}
}

func CycleStatusPill(s domain.TestCycleStatus) string {
	switch s {
	case domain.CycleNotStarted:
		return StyleBlue.Render("○ Not Started")
	case domain.CycleInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.CycleDone:
		return StyleGreen.Render("✔ Done")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleFg.Render(string(s))
	}
}

// SyncStatusPill renders the outcome of a cache sync run.
func SyncStatusPill(s domain.SyncStatus) string {
	switch s {
	case domain.SyncSucceeded:
		return StyleGreen.Render("✔ succeeded")
	case domain.SyncFailed:
		return StyleRed.Render("✖ failed")
	case domain.SyncRunning:
		return StyleYellow.Render("● running")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
