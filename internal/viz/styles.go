package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	column   lipgloss.Style
	stats    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	good     lipgloss.Style
	warn     lipgloss.Style
	bad      lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		column:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		stats:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(64),
		header:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		selected: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:  lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		good:     lipgloss.NewStyle().Foreground(t.Good),
		warn:     lipgloss.NewStyle().Foreground(t.Warning),
		bad:      lipgloss.NewStyle().Foreground(t.Error),
	}
}

// gauge renders how close a value is to its limit; it turns red near
// saturation.
func (s styles) gauge(ratio float64, width int) string {
	filled := min(max(int(ratio*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case ratio > 0.95:
		return s.bad.Render(bar)
	case ratio > 0.7:
		return s.warn.Render(bar)
	}
	return s.good.Render(bar)
}
