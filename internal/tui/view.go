package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// gridFrame is the border plus padding around the month grid.
const gridFrame = 4

const minAgendaWidth = 24

// View implements tea.Model.
func (m Model) View() string {
	if m.loading {
		return "Loading..."
	}

	grid := m.styles.GridStyle.Render(m.renderMonth())
	agenda := m.styles.AgendaStyle.Width(m.agendaWidth()).Render(m.renderAgenda())

	var body string
	if m.width > 0 && m.width < lipgloss.Width(grid)+lipgloss.Width(agenda) {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, agenda)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", agenda)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

// agendaWidth is the inner width of the agenda panel.
func (m Model) agendaWidth() int {
	if m.width == 0 {
		return 40
	}
	w := m.width - 7*cellWidth - gridFrame - 1 - gridFrame
	return max(w, minAgendaWidth)
}

// renderMonth draws the Sunday-first grid of the cursor month.
func (m Model) renderMonth() string {
	year, month := m.cursor.Year(), m.cursor.Month()
	first := dateutil.FirstOfMonth(year, month)
	days := dateutil.DaysIn(year, month)

	events := m.schedule.HasEvents(year, month, m.config.Display.ShowDates, m.config.Display.ShowRepeats)
	holidays := m.holidayBitmap()

	var b strings.Builder
	title := m.styles.TitleStyle.Render(first.Format("January 2006"))
	b.WriteString(lipgloss.PlaceHorizontal(7*cellWidth, lipgloss.Center, title))
	b.WriteString("\n")

	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(m.styles.WeekdayStyle.Render(wd))
	}
	b.WriteString("\n")

	lead := int(first.Weekday())
	b.WriteString(strings.Repeat(" ", lead*cellWidth))
	for d := 1; d <= days; d++ {
		date := dateutil.Date(year, month, d)
		b.WriteString(m.renderDay(date, events[d-1], holidays != nil && holidays[d-1]))
		if (lead+d)%7 == 0 && d != days {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDay renders one grid cell with its marker.
func (m Model) renderDay(date time.Time, hasEvents, isHoliday bool) string {
	marker := " "
	switch {
	case hasEvents && isHoliday:
		marker = "+"
	case hasEvents:
		marker = "*"
	case isHoliday:
		marker = "!"
	}
	text := fmt.Sprintf("%2d%s", date.Day(), marker)

	switch {
	case date.Equal(m.cursor):
		return m.styles.CursorStyle.Render(text)
	case date.Equal(m.today):
		return m.styles.TodayStyle.Render(text)
	case isHoliday:
		return m.styles.HolidayStyle.Render(text)
	case m.config.Display.DimPastEvents && date.Before(m.today):
		return m.styles.PastDayStyle.Render(text)
	default:
		return m.styles.DayStyle.Render(text)
	}
}

// holidayBitmap marks the holidays of the displayed month, or nil when
// holidays are hidden or not loaded yet.
func (m Model) holidayBitmap() []bool {
	if !m.config.Holidays.ShowOnCalendar {
		return nil
	}
	year, month := m.cursor.Year(), m.cursor.Month()
	if m.holidayYear != year || m.holidayMonth != month {
		return nil
	}
	out := make([]bool, dateutil.DaysIn(year, month))
	for _, h := range m.holidays {
		d := h.Date()
		if d.Year() == year && d.Month() == month {
			out[d.Day()-1] = true
		}
	}
	return out
}

// renderAgenda draws the events of the cursor day.
func (m Model) renderAgenda() string {
	width := m.agendaWidth()

	var b strings.Builder
	b.WriteString(m.styles.AgendaHeading.Render(ansi.Truncate(m.agendaTitle(), width, "…")))
	b.WriteString("\n")

	items := m.agendaItems()
	if len(items) == 0 {
		b.WriteString(m.styles.AgendaTime.Render("No events."))
		return b.String()
	}

	for i, it := range items {
		when := fmt.Sprintf("%-11s", it.when)
		name := ansi.Truncate(it.name, max(width-len(when)-3, 1), "…")

		var symbol string
		switch {
		case it.holiday:
			symbol = m.styles.HolidayMarker.Render(it.symbol)
		case it.kind != event.KindDate:
			symbol = m.styles.RepeatMarker.Render(it.symbol)
		default:
			symbol = m.styles.EventMarker.Render(it.symbol)
		}

		row := symbol + " " + m.styles.AgendaTime.Render(when) + " " + name
		if it.past {
			row = m.styles.AgendaPast.Render(it.symbol + " " + when + " " + name)
		}
		b.WriteString(row)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderFooter draws the status line and key help.
func (m Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = m.styles.ErrorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		status = m.styles.StatusStyle.Render(m.status)
	}

	helpView := m.styles.HelpStyle.Render(m.help.View(m.keys))
	if status == "" {
		return helpView
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, helpView)
}
