package event

import (
	"fmt"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/timespan"
)

// Unit is the cadence a RepeatEvent recurs on. Weeks order before months.
type Unit int

const (
	UnitWeek Unit = iota
	UnitMonth
)

func (u Unit) String() string {
	switch u {
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit parses "week" or "month".
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "week":
		return UnitWeek, nil
	case "month":
		return UnitMonth, nil
	default:
		return 0, fmt.Errorf("unknown repeat unit %q", s)
	}
}

// RepeatKey groups recurring events by cadence and position in the cadence.
// For UnitWeek, DayOf is an ISO weekday (Monday=1). For UnitMonth it is a day
// of month; a month shorter than DayOf never matches.
type RepeatKey struct {
	Unit  Unit
	DayOf int
}

// WeekKey returns the key for an ISO weekday.
func WeekKey(weekday int) RepeatKey { return RepeatKey{Unit: UnitWeek, DayOf: weekday} }

// MonthKey returns the key for a day of month.
func MonthKey(day int) RepeatKey { return RepeatKey{Unit: UnitMonth, DayOf: day} }

// KeysForDate returns the weekly and monthly keys that match date.
func KeysForDate(date time.Time) [2]RepeatKey {
	return [2]RepeatKey{WeekKey(dateutil.ISOWeekday(date)), MonthKey(date.Day())}
}

// Validate checks DayOf is in range for the unit.
func (k RepeatKey) Validate() error {
	switch k.Unit {
	case UnitWeek:
		if k.DayOf < 1 || k.DayOf > 7 {
			return fmt.Errorf("%w, got %d", ErrInvalidWeekday, k.DayOf)
		}
	case UnitMonth:
		if k.DayOf < 1 || k.DayOf > 31 {
			return fmt.Errorf("%w, got %d", ErrInvalidDayOfMonth, k.DayOf)
		}
	default:
		return fmt.Errorf("unknown repeat unit %d", int(k.Unit))
	}
	return nil
}

// Matches reports whether date falls on this key.
func (k RepeatKey) Matches(date time.Time) bool {
	switch k.Unit {
	case UnitWeek:
		return dateutil.ISOWeekday(date) == k.DayOf
	case UnitMonth:
		return date.Day() == k.DayOf
	}
	return false
}

// Compare orders keys by unit, then DayOf.
func (k RepeatKey) Compare(o RepeatKey) int {
	if k.Unit != o.Unit {
		return int(k.Unit) - int(o.Unit)
	}
	return k.DayOf - o.DayOf
}

func (k RepeatKey) String() string {
	if k.Unit == UnitWeek {
		return "every " + dateutil.FullWeekday(k.DayOf)
	}
	return "every " + Ordinal(k.DayOf)
}

// RepeatEvent recurs forever on its key. Occurrences are never materialized;
// dates are matched against the key directly.
type RepeatEvent struct {
	span
	key RepeatKey
}

// NewRepeatEvent creates a RepeatEvent. A start after end is swapped.
func NewRepeatEvent(name string, key RepeatKey, start, end timespan.Clock) (*RepeatEvent, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return &RepeatEvent{span: newSpan(name, start, end), key: key}, nil
}

// NewWeeklyEvent creates an event recurring every week on an ISO weekday.
func NewWeeklyEvent(name string, weekday int, start, end timespan.Clock) (*RepeatEvent, error) {
	return NewRepeatEvent(name, WeekKey(weekday), start, end)
}

// NewWeeklyEventAt creates a weekly event starting at start, lasting
// DefaultLength capped at the end of the day.
func NewWeeklyEventAt(name string, weekday int, start timespan.Clock) (*RepeatEvent, error) {
	return NewWeeklyEvent(name, weekday, start, timespan.AddCapped(start, DefaultLength))
}

// NewMonthlyEvent creates an event recurring every month on a day of month.
func NewMonthlyEvent(name string, day int, start, end timespan.Clock) (*RepeatEvent, error) {
	return NewRepeatEvent(name, MonthKey(day), start, end)
}

func (*RepeatEvent) sealed() {}

// Kind returns KindWeekly or KindMonthly.
func (e *RepeatEvent) Kind() Kind {
	if e.key.Unit == UnitMonth {
		return KindMonthly
	}
	return KindWeekly
}

// Key returns the recurrence key.
func (e *RepeatEvent) Key() RepeatKey { return e.key }

// Unit returns the recurrence cadence.
func (e *RepeatEvent) Unit() Unit { return e.key.Unit }

// DayOf returns the position within the cadence.
func (e *RepeatEvent) DayOf() int { return e.key.DayOf }

// IsOnDate reports whether the event recurs on date.
func (e *RepeatEvent) IsOnDate(date time.Time) bool { return e.key.Matches(date) }

// IsOnDateTime reports whether t falls on a recurrence within the span.
func (e *RepeatEvent) IsOnDateTime(t time.Time) bool {
	return e.IsOnDate(t) && e.IsOnTime(timespan.Of(t))
}

// TimeScaleString returns the weekday name for weekly events and the
// ordinal day for monthly events.
func (e *RepeatEvent) TimeScaleString() string {
	if e.key.Unit == UnitWeek {
		return dateutil.FullWeekday(e.key.DayOf)
	}
	return Ordinal(e.key.DayOf)
}

// TimeString returns the anchor followed by the time span.
func (e *RepeatEvent) TimeString() string {
	return timeString(e.TimeScaleString(), &e.span)
}

// NextOccurrence returns the first date on or after from that the event
// recurs on.
func (e *RepeatEvent) NextOccurrence(from time.Time) time.Time {
	from = dateutil.TruncateToDay(from)
	if e.key.Unit == UnitWeek {
		return from.AddDate(0, 0, dateutil.DaysBetweenWeekdays(dateutil.ISOWeekday(from), e.key.DayOf))
	}
	year, month := from.Year(), from.Month()
	if from.Day() > e.key.DayOf {
		month++
	}
	// Every day 1..31 occurs at least once in any twelve consecutive months.
	for range 12 {
		first := dateutil.FirstOfMonth(year, month)
		if e.key.DayOf <= dateutil.DaysIn(first.Year(), first.Month()) {
			return dateutil.Date(first.Year(), first.Month(), e.key.DayOf)
		}
		month++
	}
	return from
}

// Compare orders repeat events by unit, day, then start time.
func (e *RepeatEvent) Compare(o *RepeatEvent) int {
	if c := e.key.Compare(o.key); c != 0 {
		return c
	}
	return int(e.start) - int(o.start)
}

// Equal reports whether both events have the same name, key and span.
func (e *RepeatEvent) Equal(o *RepeatEvent) bool {
	return e.span.equal(&o.span) && e.key == o.key
}

// CompareRepeatEvents is RepeatEvent.Compare in function form.
func CompareRepeatEvents(a, b *RepeatEvent) int { return a.Compare(b) }
