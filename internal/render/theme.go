package render

import (
	"charm.land/lipgloss/v2"

	"github.com/happykids/kidsdiag/internal/analytics"
	"github.com/happykids/kidsdiag/internal/recommend"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F97316")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary).
		MarginTop(1)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	BarFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	BarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

var severityStyles = map[recommend.Severity]lipgloss.Style{
	recommend.SeverityUrgent:   lipgloss.NewStyle().Foreground(Error).Bold(true),
	recommend.SeverityModerate: lipgloss.NewStyle().Foreground(Accent),
	recommend.SeverityInfo:     Body,
}

func severityStyle(s recommend.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return Body
}

var trendStyles = map[string]lipgloss.Style{
	analytics.TrendImproving: lipgloss.NewStyle().Foreground(Success),
	analytics.TrendWorsening: lipgloss.NewStyle().Foreground(Error),
}

func trendStyle(t string) lipgloss.Style {
	if st, ok := trendStyles[t]; ok {
		return st
	}
	return Hint
}
