package schedule

import (
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/timespan"
)

// repeatKeyInRange reports whether key occurs at least once in [start, end].
//
// A range covering a whole week matches every weekly key and a range
// covering a whole month matches every monthly key. Shorter ranges compare
// positions within the cycle; the range wraps when start's position is past
// end's. Both decisions are made here from the same two dates.
func repeatKeyInRange(key event.RepeatKey, start, end time.Time) bool {
	afterEnd := end.AddDate(0, 0, 1)
	switch key.Unit {
	case event.UnitWeek:
		if dateutil.WeeksBetween(start, afterEnd) >= 1 {
			return true
		}
		left, right := dateutil.ISOWeekday(start), dateutil.ISOWeekday(end)
		return timespan.BetweenLoop(key.DayOf, left, right, left > right)
	case event.UnitMonth:
		if dateutil.MonthsBetween(start, afterEnd) >= 1 {
			return true
		}
		left, right := start.Day(), end.Day()
		wraps := left > right
		if wraps && key.DayOf >= left {
			// The upper arc ends with start's month.
			return key.DayOf <= dateutil.DaysIn(start.Year(), start.Month())
		}
		return timespan.BetweenLoop(key.DayOf, left, right, wraps)
	}
	return false
}
