package components

import (
	"fmt"
	"strings"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// SeverityColor maps a severity to the active theme's color.
func SeverityColor(sev balance.Severity) lipgloss.Color {
	t := theme.Active
	switch sev {
	case balance.SeverityError:
		return t.Red
	case balance.SeverityWarning:
		return t.Orange
	default:
		return t.Green
	}
}

// BalanceLine renders the headline reading: colored value plus category tag.
func BalanceLine(res balance.Result, stale bool) string {
	t := theme.Active

	valueStyle := lipgloss.NewStyle().
		Foreground(SeverityColor(res.Severity)).
		Bold(true)
	tagStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	line := valueStyle.Render(res.DisplayText) + " " + tagStyle.Render(string(res.Category))
	if stale {
		line += " " + lipgloss.NewStyle().Foreground(t.Orange).Render("(stale)")
	}
	return line
}

// GaugeBar renders a labeled severity-colored bar for a 0-100 percentage.
func GaugeBar(label string, pct float64, labelW, barW int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	color := t.Green
	switch {
	case pct < 20:
		color = t.Red
	case pct < 50:
		color = t.Orange
	}

	filled := int(pct / 100 * float64(barW))
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barW-filled)) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

// Footer renders the bottom key-hint bar.
func Footer(width int, dataAge string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [r]efresh  [m]ode  [q]uit"
	right := ""
	if dataAge != "" {
		right = fmt.Sprintf("Updated: %s ", dataAge)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
