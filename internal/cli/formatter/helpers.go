package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// KeyValues renders label/value pairs with the labels padded to one width.
// Pairs with an empty value are skipped.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if p[1] != "" && len(p[0]) > width {
			width = len(p[0])
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		label := strings.ToUpper(p[0]) + strings.Repeat(" ", width-len(p[0]))
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(label), p[1])
	}
	return strings.TrimRight(b.String(), "\n")
}

// DateOrDash formats an optional timestamp as YYYY-MM-DD.
func DateOrDash(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.UTC().Format("2006-01-02")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006 15:04")
	}
}

// FormatMillis renders an execution time such as 93500 as "1m 33.5s".
func FormatMillis(ms int) string {
	if ms <= 0 {
		return "0s"
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%gs", d.Seconds())
	}
	m := int(d / time.Minute)
	rest := d - time.Duration(m)*time.Minute
	if rest == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %gs", m, rest.Seconds())
}

// Bar renders a proportional bar of width cells for n out of total.
func Bar(n, total, width int, style lipgloss.Style) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := n * width / total
	if n > 0 && filled == 0 {
		filled = 1
	}
	return style.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}
