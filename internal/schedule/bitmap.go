package schedule

import (
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// maxWeeksInMonth bounds how many times one weekday can occur in a month.
const maxWeeksInMonth = 6

// HasEvents returns one flag per day of the month, day d at index d-1, set
// when at least one event falls on that day. Date events and recurring
// events contribute only when their flag is set.
func (c *Container) HasEvents(year int, month time.Month, showDates, showRepeats bool) []bool {
	days := dateutil.DaysIn(year, month)
	marks := make([]bool, days)

	if showDates {
		for _, e := range c.DateEventsForMonth(year, month) {
			marks[e.Date().Day()-1] = true
		}
	}

	if showRepeats {
		firstWeekday := dateutil.ISOWeekday(dateutil.FirstOfMonth(year, month))
		for key := range c.repeatIndex {
			switch key.Unit {
			case event.UnitWeek:
				offset := dateutil.DaysBetweenWeekdays(firstWeekday, key.DayOf)
				for i := range maxWeeksInMonth {
					if d := offset + 7*i; d < days {
						marks[d] = true
					}
				}
			case event.UnitMonth:
				if key.DayOf <= days {
					marks[key.DayOf-1] = true
				}
			}
		}
	}
	return marks
}
