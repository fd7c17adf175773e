package tui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// agendaItem is one row of the day agenda.
type agendaItem struct {
	symbol string
	when   string
	name   string
	kind   event.Kind
	past   bool
	// holiday is set for entries coming from the holiday calendar.
	holiday bool
}

// agendaItems returns the rows for the cursor day: holidays, then recurring
// events, then one-off events.
func (m Model) agendaItems() []agendaItem {
	var items []agendaItem

	if m.config.Holidays.ShowOnEvents {
		for _, h := range m.holidays {
			if !h.IsOnDate(m.cursor) {
				continue
			}
			items = append(items, agendaItem{
				symbol:  "★",
				when:    whenOf(h),
				name:    h.MergedName(),
				kind:    h.Kind(),
				holiday: true,
			})
		}
	}

	past := m.config.Display.DimPastEvents && m.cursor.Before(m.today)
	for _, e := range m.schedule.EventsForDate(m.cursor) {
		symbol := "○"
		if e.Kind() != event.KindDate {
			symbol = "↻"
		}
		items = append(items, agendaItem{
			symbol: symbol,
			when:   whenOf(e),
			name:   e.Name(),
			kind:   e.Kind(),
			past:   past && e.Kind() == event.KindDate,
		})
	}
	return items
}

// whenOf renders the time of day of e, or "all day".
func whenOf(e event.Event) string {
	if e.IsFullDay() {
		return "all day"
	}
	return e.TimeOnlyString()
}

// agendaTitle is the heading of the cursor day.
func (m Model) agendaTitle() string {
	return m.cursor.Format("Monday, " + dateutil.DisplayLayout)
}

// agendaText renders the cursor day as plain text for the clipboard.
func (m Model) agendaText() string {
	var b strings.Builder
	b.WriteString(m.agendaTitle())
	b.WriteString("\n")

	items := m.agendaItems()
	if len(items) == 0 {
		b.WriteString("  No events.\n")
		return b.String()
	}
	for _, it := range items {
		fmt.Fprintf(&b, "  %s %-11s %s\n", it.symbol, it.when, it.name)
	}
	return b.String()
}
