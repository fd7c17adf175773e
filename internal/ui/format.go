package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// PrintOpts configures event printing behavior.
type PrintOpts struct {
	DimPast      bool      // Render events before Today muted
	Today        time.Time // Reference date for DimPast
	MaxNameWidth int       // Maximum name width (0 = auto)
}

// CalcMaxNameWidth calculates the maximum name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	// Base: "  ○  2025/06/03 10:00~11:00  " = ~30 chars
	available := termWidth() - 30
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// eventSymbol returns the marker printed in front of an event row.
func eventSymbol(e event.Event) string {
	switch e.Kind() {
	case event.KindWeekly, event.KindMonthly:
		return "↻"
	default:
		if m, ok := e.(*event.MultiEvent); ok && m.IsFullDay() {
			return "★"
		}
		return "○"
	}
}

// isPast reports whether e lies entirely before today. Recurring events are
// never past.
func isPast(e event.Event, today time.Time) bool {
	switch v := e.(type) {
	case *event.DateEvent:
		return v.Date().Before(today)
	case *event.MultiEvent:
		return v.Date().Before(today)
	default:
		return false
	}
}

// eventName returns the display name, joining the aliases of a merged holiday.
func eventName(e event.Event) string {
	if m, ok := e.(*event.MultiEvent); ok {
		return m.MergedName()
	}
	return e.Name()
}

// PrintEventRow prints a single event row with consistent formatting.
func PrintEventRow(w io.Writer, e event.Event, opts PrintOpts) {
	name := ansi.Truncate(eventName(e), opts.CalcMaxNameWidth(40), "…")
	when := e.TimeString()

	row := fmt.Sprintf("  %s  %-28s  %s", eventSymbol(e), when, name)
	switch {
	case opts.DimPast && isPast(e, opts.Today):
		row = formatMuted(row)
	case e.Kind() != event.KindDate:
		row = formatRepeat(row)
	default:
		if _, ok := e.(*event.MultiEvent); ok {
			row = formatHoliday(row)
		}
	}
	fmt.Fprintln(w, strings.TrimRight(row, " "))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// MonthGrid is the data behind a printed month calendar.
type MonthGrid struct {
	Year     int
	Month    time.Month
	Events   []bool // day d at index d-1
	Holidays []bool // nil when holidays are hidden
	Today    time.Time
}

const cellWidth = 4

// marker returns the character printed after day d.
func (g MonthGrid) marker(d int) byte {
	events := d <= len(g.Events) && g.Events[d-1]
	holiday := d <= len(g.Holidays) && g.Holidays[d-1]
	switch {
	case events && holiday:
		return '+'
	case events:
		return '*'
	case holiday:
		return '!'
	default:
		return ' '
	}
}

// RenderMonth prints g as a Sunday-first calendar grid.
func RenderMonth(w io.Writer, g MonthGrid) {
	first := dateutil.FirstOfMonth(g.Year, g.Month)
	width := 7 * cellWidth

	title := first.Format("January 2006")
	pad := (width - len(title)) / 2
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), formatHeader(title))

	var header strings.Builder
	for _, iso := range dateutil.WeekdaysFrom(7) {
		fmt.Fprintf(&header, "%3s ", dateutil.ShortWeekday(iso))
	}
	fmt.Fprintln(w, strings.TrimRight(header.String(), " "))

	offset := dateutil.DaysBetweenWeekdays(7, dateutil.ISOWeekday(first))
	var line strings.Builder
	line.WriteString(strings.Repeat(" ", offset*cellWidth))
	col := offset
	for d := 1; d <= dateutil.DaysIn(g.Year, g.Month); d++ {
		cell := fmt.Sprintf("%3d%c", d, g.marker(d))
		date := dateutil.Date(g.Year, g.Month, d)
		switch {
		case date.Equal(g.Today):
			cell = formatToday(cell)
		case d <= len(g.Holidays) && g.Holidays[d-1]:
			cell = formatHoliday(cell)
		case date.Before(g.Today):
			cell = formatMuted(cell)
		}
		line.WriteString(cell)
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if col > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
	fmt.Fprintln(w, formatMuted("* events  ! holiday  + both"))
}
