package cli

import (
	"fmt"
	"strings"

	"github.com/coderprepares/yescode-statusbar/internal/balance"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)
)

// SeverityColor maps a classification severity to its display color.
func SeverityColor(sev balance.Severity) lipgloss.Color {
	switch sev {
	case balance.SeverityError:
		return ColorRed
	case balance.SeverityWarning:
		return ColorOrange
	default:
		return ColorGreen
	}
}

// categoryLabel is the short prefix shown before the critical reading.
func categoryLabel(cat balance.Category) string {
	switch cat {
	case balance.CategoryDaily:
		return "day"
	case balance.CategoryWeekly:
		return "week"
	default:
		return "payg"
	}
}

// StatusLine renders the single-line status bar reading, colored by severity.
// stale marks the reading with an error indicator without discarding it.
func StatusLine(res balance.Result, stale bool) string {
	style := lipgloss.NewStyle().Foreground(SeverityColor(res.Severity)).Bold(true)

	line := fmt.Sprintf("%s %s", categoryLabel(res.Category), res.DisplayText)
	out := style.Render(line)
	if stale {
		out += " " + warnStyle.Render("!")
	}
	return out
}

// PlainStatusLine renders the status line without ANSI styling, for shells
// and status bars that do their own coloring.
func PlainStatusLine(res balance.Result, stale bool) string {
	line := fmt.Sprintf("%s %s", categoryLabel(res.Category), res.DisplayText)
	if stale {
		line += " !"
	}
	return line
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(48).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderBreakdown renders the full tooltip breakdown as an indented block.
func RenderBreakdown(res balance.Result) string {
	var b strings.Builder

	lines := strings.Split(res.TooltipText, "\n")
	for i, line := range lines {
		if i == 0 {
			b.WriteString("  " + headerStyle.Render(line) + "\n")
			continue
		}
		b.WriteString("  " + mutedStyle.Render(line) + "\n")
	}

	if res.Warning != "" {
		b.WriteString("  " + warnStyle.Render(res.Warning) + "\n")
	}
	return b.String()
}

// MiniBar renders a small severity-colored bar for a 0-100 percentage.
func MiniBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	empty := width - filled

	color := ColorGreen
	switch {
	case pct < 20:
		color = ColorRed
	case pct < 50:
		color = ColorOrange
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	return barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", empty))
}
