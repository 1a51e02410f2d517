package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stability color bands, in percent.
const (
	stabilityGood = 95
	stabilityWarn = 80
)

var titler = cases.Title(language.English)

// RenderTerminal formats rows as per-environment blocks for terminal
// display. The stability figure is colorized by band: at least 95 renders
// as success, at least 80 as warning, anything lower as error. Long
// scenario names are truncated to the terminal width.
func RenderTerminal(rows []Row, theme Theme, width int) string {
	if width <= 0 {
		width = 80
	}
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderRow(&sb, row, theme, width)
	}
	return sb.String()
}

func renderRow(sb *strings.Builder, row Row, theme Theme, width int) {
	title := fmt.Sprintf("%s · %s", row.Date, titler.String(strings.ReplaceAll(row.Environment, "_", " ")))
	sb.WriteString(theme.Header.Render(title))
	sb.WriteString("\n")

	sb.WriteString("  ")
	sb.WriteString(theme.Muted.Render("builds: " + row.Builds))
	sb.WriteString("\n")

	sb.WriteString("  ")
	sb.WriteString(theme.Label.Render("stability: "))
	sb.WriteString(stabilityStyle(row.Stability, theme).Render(formatPercent(row.Stability) + "%"))
	sb.WriteString(theme.Muted.Render("   failures: " + formatPercent(row.FailurePercentage) + "%"))
	sb.WriteString("\n")

	sb.WriteString("  ")
	sb.WriteString(countLine("scenarios", row.ScenariosTotal, row.ScenariosPassed, row.ScenariosFailed, row.ScenariosSkipped))
	sb.WriteString("\n  ")
	sb.WriteString(countLine("steps", row.StepsTotal, row.StepsPassed, row.StepsFailed, row.StepsSkipped))
	sb.WriteString("\n")

	if row.FailedScenarios == "" {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(theme.Error.Render("failed scenarios:"))
	sb.WriteString("\n")
	for _, name := range strings.Split(row.FailedScenarios, "; ") {
		sb.WriteString("    · ")
		sb.WriteString(truncate(name, width-6))
		sb.WriteString("\n")
	}
}

func stabilityStyle(v float64, theme Theme) lipgloss.Style {
	switch {
	case v >= stabilityGood:
		return theme.Success
	case v >= stabilityWarn:
		return theme.Warning
	default:
		return theme.Error
	}
}

func countLine(label string, total, passed, failed, skipped int) string {
	return fmt.Sprintf("%s: %d total · %d passed · %d failed · %d skipped",
		label, total, passed, failed, skipped)
}

// truncate shortens s to the given display width in terminal cells, using
// go-runewidth so wide runes count correctly.
func truncate(s string, width int) string {
	if width <= 3 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-3, "") + "..."
}
