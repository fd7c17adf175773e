// Package tui provides the terminal user interface for almanac.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/almanac/internal/tui/theme"
)

// cellWidth is the width of one day cell in the month grid.
const cellWidth = 5

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	TitleStyle     lipgloss.Style
	WeekdayStyle   lipgloss.Style
	DayStyle       lipgloss.Style
	PastDayStyle   lipgloss.Style
	CursorStyle    lipgloss.Style
	TodayStyle     lipgloss.Style
	HolidayStyle   lipgloss.Style
	EventMarker    lipgloss.Style
	RepeatMarker   lipgloss.Style
	HolidayMarker  lipgloss.Style
	GridStyle      lipgloss.Style
	AgendaStyle    lipgloss.Style
	AgendaHeading  lipgloss.Style
	AgendaTime     lipgloss.Style
	AgendaPast     lipgloss.Style
	HelpStyle      lipgloss.Style
	StatusStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	FooterBarStyle lipgloss.Style
}

// NewStyles creates a Styles instance from the given theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	day := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Foreground(p.Fg)

	return &Styles{
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Padding(0, 1),
		WeekdayStyle: lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right).
			Foreground(p.FgMuted),
		DayStyle:      day,
		PastDayStyle:  day.Foreground(p.PastFg),
		CursorStyle: day.
			Bold(true).
			Background(p.BgSelection).
			Foreground(p.TextOnSelection),
		TodayStyle: day.
			Bold(true).
			Background(p.Today).
			Foreground(p.TextOnToday),
		HolidayStyle: day.
			Background(p.HolidayBg).
			Foreground(p.Holiday),
		EventMarker:   lipgloss.NewStyle().Foreground(p.Event),
		RepeatMarker:  lipgloss.NewStyle().Foreground(p.Repeat),
		HolidayMarker: lipgloss.NewStyle().Foreground(p.Holiday),
		GridStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		AgendaStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.FgMuted).
			Padding(0, 1),
		AgendaHeading: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		AgendaTime:    lipgloss.NewStyle().Foreground(p.FgMuted),
		AgendaPast:    lipgloss.NewStyle().Foreground(p.PastFg),
		HelpStyle:     lipgloss.NewStyle().Foreground(p.FgMuted),
		StatusStyle:   lipgloss.NewStyle().Foreground(p.Accent),
		ErrorStyle:    lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		FooterBarStyle: lipgloss.NewStyle().
			Background(p.BgHighlight).
			Foreground(p.Fg).
			Padding(0, 1),
	}
}
