package report

import "charm.land/lipgloss/v2"

// Palette
var (
	primary = lipgloss.Color("#8B5CF6")
	accent  = lipgloss.Color("#F97316")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#F43F5E")
	dim     = lipgloss.Color("#94A3B8")
	border  = lipgloss.Color("#334155")
)

type theme struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	card    lipgloss.Style
}

func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		return theme{plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return theme{
		title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:   lipgloss.NewStyle().Foreground(dim),
		value:   lipgloss.NewStyle().Bold(true),
		hint:    lipgloss.NewStyle().Foreground(dim).Italic(true),
		good:    lipgloss.NewStyle().Foreground(success).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		bad:     lipgloss.NewStyle().Foreground(danger).Bold(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}
